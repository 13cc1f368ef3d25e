package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/nilai"
)

type nilaiRepository struct {
	exec core.DBExecutor
}

var _ nilai.Repository = (*nilaiRepository)(nil) // interface compliance check

func NewNilaiRepository(exec core.DBExecutor) *nilaiRepository {
	return &nilaiRepository{exec: exec}
}

func (repo nilaiRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return nilai.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo nilaiRepository) CreateNilai(ctx context.Context, n nilai.Nilai, exec ...core.DBExecutor) (nilai.Nilai, error) {
	query := `
		INSERT INTO nilai (murid_id, mata_pelajaran, skor, tipe, tanggal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, n.MuridID, n.MataPelajaran, n.Skor, n.Tipe, n.Tanggal, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		if violatedConstraint(err) == "nilai_murid_id_fkey" {
			return nilai.Nilai{}, nilai.ErrMuridNotFound
		}
		return nilai.Nilai{}, errors.Wrap(err, "inserting nilai")
	}
	return n, nil
}

func (repo nilaiRepository) FilterNilai(ctx context.Context, filter *nilai.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]nilai.Nilai, error) {
	query := `SELECT * FROM nilai WHERE murid_id = $1`
	args := []interface{}{filter.MuridID}

	if filter.Tipe != "" {
		args = append(args, filter.Tipe)
		query += " AND tipe = $" + strconv.Itoa(len(args))
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]nilai.Nilai, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying nilai")
	}
	return res, nil
}

func (repo nilaiRepository) Rekap(ctx context.Context, muridID int, exec ...core.DBExecutor) ([]nilai.RekapEntry, error) {
	query := `
		SELECT mata_pelajaran,
		       ROUND(AVG(skor)::numeric, 2) AS rata_rata,
		       COUNT(*) AS jumlah_nilai
		FROM nilai
		WHERE murid_id = $1
		GROUP BY mata_pelajaran
		ORDER BY mata_pelajaran ASC`

	res := make([]nilai.RekapEntry, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, muridID); err != nil {
		return nil, errors.Wrap(err, "querying nilai rekap")
	}
	return res, nil
}

func (repo nilaiRepository) DeleteNilai(ctx context.Context, id int, exec ...core.DBExecutor) (nilai.Nilai, error) {
	var n nilai.Nilai
	err := getExec(repo.exec, exec).GetContext(ctx, &n, `DELETE FROM nilai WHERE id = $1 RETURNING *`, id)
	if err != nil {
		return nilai.Nilai{}, repo.trapNoRowsErr(err, "deleting nilai")
	}
	return n, nil
}

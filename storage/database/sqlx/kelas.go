package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/kelas"
)

type kelasRepository struct {
	exec core.DBExecutor
}

var _ kelas.Repository = (*kelasRepository)(nil) // interface compliance check

func NewKelasRepository(exec core.DBExecutor) *kelasRepository {
	return &kelasRepository{exec: exec}
}

func (repo kelasRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return kelas.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo kelasRepository) trapFKErr(err error, msg string) error {
	if violatedConstraint(err) == "kelas_wali_kelas_id_fkey" {
		return kelas.ErrGuruNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo kelasRepository) CreateKelas(ctx context.Context, k kelas.Kelas, exec ...core.DBExecutor) (kelas.Kelas, error) {
	query := `
		INSERT INTO kelas (nama_kelas, tahun_ajaran, wali_kelas_id, jumlah_siswa, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, k.NamaKelas, k.TahunAjaran, k.WaliKelasID, k.JumlahSiswa, k.CreatedAt,
	).Scan(&k.ID)
	if err != nil {
		return kelas.Kelas{}, repo.trapFKErr(err, "inserting kelas")
	}
	return k, nil
}

func (repo kelasRepository) GetKelas(ctx context.Context, filter kelas.GetFilter, exec ...core.DBExecutor) (kelas.Kelas, error) {
	var k kelas.Kelas
	if err := getExec(repo.exec, exec).GetContext(ctx, &k, `SELECT * FROM kelas WHERE id = $1`, filter.ID); err != nil {
		return kelas.Kelas{}, repo.trapNoRowsErr(err, "finding kelas")
	}
	return k, nil
}

func (repo kelasRepository) FilterKelas(ctx context.Context, filter *kelas.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]kelas.Kelas, error) {
	query := `SELECT * FROM kelas`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			conds = append(conds, "nama_kelas ILIKE $"+strconv.Itoa(len(args)))
		}
		if filter.TahunAjaran != "" {
			args = append(args, filter.TahunAjaran)
			conds = append(conds, "tahun_ajaran = $"+strconv.Itoa(len(args)))
		}
		if filter.WaliKelasID != nil {
			args = append(args, *filter.WaliKelasID)
			conds = append(conds, "wali_kelas_id = $"+strconv.Itoa(len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]kelas.Kelas, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying kelas")
	}
	return res, nil
}

func (repo kelasRepository) UpdateKelas(ctx context.Context, k kelas.Kelas, exec ...core.DBExecutor) (kelas.Kelas, error) {
	query := `
		UPDATE kelas
		SET nama_kelas = $1, tahun_ajaran = $2, wali_kelas_id = $3, jumlah_siswa = $4
		WHERE id = $5`
	res, err := getExec(repo.exec, exec).ExecContext(ctx, query, k.NamaKelas, k.TahunAjaran, k.WaliKelasID, k.JumlahSiswa, k.ID)
	if err != nil {
		return kelas.Kelas{}, repo.trapFKErr(err, "updating kelas")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return kelas.Kelas{}, kelas.ErrNotFound
	}
	return k, nil
}

func (repo kelasRepository) IncrementJumlahSiswa(ctx context.Context, id, delta int, exec ...core.DBExecutor) error {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE kelas SET jumlah_siswa = jumlah_siswa + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return errors.Wrap(err, "incrementing jumlah siswa")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return kelas.ErrNotFound
	}
	return nil
}

func (repo kelasRepository) DeleteKelas(ctx context.Context, id int, exec ...core.DBExecutor) (kelas.Kelas, error) {
	var k kelas.Kelas
	err := getExec(repo.exec, exec).GetContext(ctx, &k, `DELETE FROM kelas WHERE id = $1 RETURNING *`, id)
	if err != nil {
		return kelas.Kelas{}, repo.trapNoRowsErr(err, "deleting kelas")
	}
	return k, nil
}

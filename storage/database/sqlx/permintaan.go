package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/permintaan"
)

type permintaanRepository struct {
	exec core.DBExecutor
}

var _ permintaan.Repository = (*permintaanRepository)(nil) // interface compliance check

func NewPermintaanRepository(exec core.DBExecutor) *permintaanRepository {
	return &permintaanRepository{exec: exec}
}

func (repo permintaanRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return permintaan.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo permintaanRepository) trapConstraintErr(err error, msg string) error {
	switch violatedConstraint(err) {
	case "permintaan_kelas_pending_uniq":
		return permintaan.ErrDuplicateRequest
	case "permintaan_kelas_murid_id_fkey":
		return permintaan.ErrMuridNotFound
	case "permintaan_kelas_kelas_id_fkey":
		return permintaan.ErrKelasNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo permintaanRepository) CreatePermintaan(ctx context.Context, p permintaan.Permintaan, exec ...core.DBExecutor) (permintaan.Permintaan, error) {
	query := `
		INSERT INTO permintaan_kelas (murid_id, kelas_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, p.MuridID, p.KelasID, p.Status, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return permintaan.Permintaan{}, repo.trapConstraintErr(err, "inserting permintaan")
	}
	return p, nil
}

func (repo permintaanRepository) GetPermintaan(ctx context.Context, filter permintaan.GetFilter, exec ...core.DBExecutor) (permintaan.Permintaan, error) {
	query := `SELECT * FROM permintaan_kelas WHERE id = $1`
	if filter.ForUpdate {
		query += " FOR UPDATE"
	}

	var p permintaan.Permintaan
	if err := getExec(repo.exec, exec).GetContext(ctx, &p, query, filter.ID); err != nil {
		return permintaan.Permintaan{}, repo.trapNoRowsErr(err, "finding permintaan")
	}
	return p, nil
}

func (repo permintaanRepository) FilterPending(ctx context.Context, waliKelasGuruID *int, pg core.Pagination, exec ...core.DBExecutor) ([]permintaan.PendingRequest, error) {
	query := `
		SELECT pk.id, pk.murid_id, m.nama AS nama_murid, m.nisn,
		       pk.kelas_id, k.nama_kelas, pk.status, pk.created_at
		FROM permintaan_kelas pk
		JOIN murid m ON m.id = pk.murid_id
		JOIN kelas k ON k.id = pk.kelas_id
		WHERE pk.status = 'pending'`
	var args []interface{}

	if waliKelasGuruID != nil {
		args = append(args, *waliKelasGuruID)
		query += " AND k.wali_kelas_id = $" + strconv.Itoa(len(args))
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY pk.created_at ASC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]permintaan.PendingRequest, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying pending permintaan")
	}
	return res, nil
}

func (repo permintaanRepository) UpdateStatus(ctx context.Context, id int, status string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE permintaan_kelas SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Wrap(err, "updating permintaan status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return permintaan.ErrNotFound
	}
	return nil
}

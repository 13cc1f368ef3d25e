package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
)

type guruRepository struct {
	exec core.DBExecutor
}

var _ guru.Repository = (*guruRepository)(nil) // interface compliance check

func NewGuruRepository(exec core.DBExecutor) *guruRepository {
	return &guruRepository{exec: exec}
}

func (repo guruRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return guru.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo guruRepository) trapUniqueErr(err error, msg string) error {
	switch violatedConstraint(err) {
	case "guru_nip_key":
		return guru.ErrNIPExists
	case "guru_pengguna_id_key":
		return guru.ErrPenggunaIDExists
	}
	return errors.Wrap(err, msg)
}

func (repo guruRepository) CreateGuru(ctx context.Context, g guru.Guru, exec ...core.DBExecutor) (guru.Guru, error) {
	query := `
		INSERT INTO guru (pengguna_id, nip, nama, mata_pelajaran, no_telp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, g.PenggunaID, g.NIP, g.Nama, g.MataPelajaran, g.NoTelp, g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		return guru.Guru{}, repo.trapUniqueErr(err, "inserting guru")
	}
	return g, nil
}

func (repo guruRepository) GetGuru(ctx context.Context, filter guru.GetFilter, exec ...core.DBExecutor) (guru.Guru, error) {
	query := `SELECT * FROM guru WHERE `
	var arg interface{}
	switch {
	case filter.ID != 0:
		query += "id = $1"
		arg = filter.ID
	case filter.PenggunaID != 0:
		query += "pengguna_id = $1"
		arg = filter.PenggunaID
	default:
		query += "nip = $1"
		arg = filter.NIP
	}

	var g guru.Guru
	if err := getExec(repo.exec, exec).GetContext(ctx, &g, query, arg); err != nil {
		return guru.Guru{}, repo.trapNoRowsErr(err, "finding guru")
	}
	return g, nil
}

func (repo guruRepository) FilterGuru(ctx context.Context, filter *guru.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]guru.Guru, error) {
	query := `SELECT * FROM guru`
	var args []interface{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += " WHERE nama ILIKE $1 OR nip ILIKE $1 OR mata_pelajaran ILIKE $1"
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]guru.Guru, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying guru")
	}
	return res, nil
}

func (repo guruRepository) UpdateGuru(ctx context.Context, g guru.Guru, exec ...core.DBExecutor) (guru.Guru, error) {
	query := `
		UPDATE guru
		SET pengguna_id = $1, nip = $2, nama = $3, mata_pelajaran = $4, no_telp = $5
		WHERE id = $6`
	res, err := getExec(repo.exec, exec).ExecContext(ctx, query, g.PenggunaID, g.NIP, g.Nama, g.MataPelajaran, g.NoTelp, g.ID)
	if err != nil {
		return guru.Guru{}, repo.trapUniqueErr(err, "updating guru")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return guru.Guru{}, guru.ErrNotFound
	}
	return g, nil
}

func (repo guruRepository) UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE guru SET nama = $1 WHERE pengguna_id = $2`, nama, penggunaID)
	return errors.Wrap(err, "updating guru nama")
}

func (repo guruRepository) DeleteGuru(ctx context.Context, id int, exec ...core.DBExecutor) (guru.Guru, error) {
	var g guru.Guru
	err := getExec(repo.exec, exec).GetContext(ctx, &g, `DELETE FROM guru WHERE id = $1 RETURNING *`, id)
	if err != nil {
		return guru.Guru{}, repo.trapNoRowsErr(err, "deleting guru")
	}
	return g, nil
}

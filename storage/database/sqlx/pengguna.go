package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

type penggunaRepository struct {
	exec core.DBExecutor
}

var _ pengguna.Repository = (*penggunaRepository)(nil) // interface compliance check

func NewPenggunaRepository(exec core.DBExecutor) *penggunaRepository {
	return &penggunaRepository{exec: exec}
}

func (repo penggunaRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return pengguna.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo penggunaRepository) trapUniqueErr(err error, msg string) error {
	if violatedConstraint(err) == "pengguna_username_key" {
		return pengguna.ErrUsernameExists
	}
	return errors.Wrap(err, msg)
}

func (repo penggunaRepository) CheckUsernameUniqueness(ctx context.Context, username string, excluded []pengguna.Pengguna, exec ...core.DBExecutor) error {
	query := `SELECT EXISTS (SELECT 1 FROM pengguna WHERE username = $1`
	args := []interface{}{username}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for i, p := range excluded {
			args = append(args, p.ID)
			ids = append(ids, "$"+strconv.Itoa(i+2))
		}
		query += " AND id NOT IN (" + strings.Join(ids, ",") + ")"
	}
	query += ")"

	var exists bool
	if err := getExec(repo.exec, exec).GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if exists {
		return pengguna.ErrUsernameExists
	}
	return nil
}

func (repo penggunaRepository) CreatePengguna(ctx context.Context, p pengguna.Pengguna, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	query := `
		INSERT INTO pengguna (username, password_hash, role, nama, email, foto, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, p.Username, p.PasswordHash, p.Role, p.Nama, p.Email, p.Foto, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return pengguna.Pengguna{}, repo.trapUniqueErr(err, "inserting pengguna")
	}
	return p, nil
}

func (repo penggunaRepository) GetPengguna(ctx context.Context, filter pengguna.GetFilter, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	query := `SELECT * FROM pengguna WHERE `
	var arg interface{}
	if filter.ID != 0 {
		query += "id = $1"
		arg = filter.ID
	} else {
		query += "username = $1"
		arg = filter.Username
	}

	var p pengguna.Pengguna
	if err := getExec(repo.exec, exec).GetContext(ctx, &p, query, arg); err != nil {
		return pengguna.Pengguna{}, repo.trapNoRowsErr(err, "finding pengguna")
	}
	return p, nil
}

func (repo penggunaRepository) FilterPengguna(ctx context.Context, filter *pengguna.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]pengguna.Pengguna, error) {
	query := `SELECT * FROM pengguna`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := strconv.Itoa(len(args))
			conds = append(conds, "(username ILIKE $"+n+" OR nama ILIKE $"+n+")")
		}
		if filter.Role != "" {
			args = append(args, filter.Role)
			conds = append(conds, "role = $"+strconv.Itoa(len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]pengguna.Pengguna, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying pengguna")
	}
	return res, nil
}

func (repo penggunaRepository) UpdatePengguna(ctx context.Context, p pengguna.Pengguna, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	query := `
		UPDATE pengguna
		SET username = $1, role = $2, nama = $3, email = $4, foto = $5
		WHERE id = $6`
	res, err := getExec(repo.exec, exec).ExecContext(ctx, query, p.Username, p.Role, p.Nama, p.Email, p.Foto, p.ID)
	if err != nil {
		return pengguna.Pengguna{}, repo.trapUniqueErr(err, "updating pengguna")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pengguna.Pengguna{}, pengguna.ErrNotFound
	}
	return p, nil
}

func (repo penggunaRepository) UpdatePassword(ctx context.Context, id int, hash []byte, exec ...core.DBExecutor) error {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE pengguna SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pengguna.ErrNotFound
	}
	return nil
}

func (repo penggunaRepository) DeletePengguna(ctx context.Context, id int, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	var p pengguna.Pengguna
	err := getExec(repo.exec, exec).GetContext(ctx, &p, `DELETE FROM pengguna WHERE id = $1 RETURNING *`, id)
	if err != nil {
		return pengguna.Pengguna{}, repo.trapNoRowsErr(err, "deleting pengguna")
	}
	return p, nil
}

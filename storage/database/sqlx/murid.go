package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/murid"
)

type muridRepository struct {
	exec core.DBExecutor
}

var _ murid.Repository = (*muridRepository)(nil) // interface compliance check

func NewMuridRepository(exec core.DBExecutor) *muridRepository {
	return &muridRepository{exec: exec}
}

func (repo muridRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return murid.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo muridRepository) trapConstraintErr(err error, msg string) error {
	switch violatedConstraint(err) {
	case "murid_nisn_key":
		return murid.ErrNISNExists
	case "murid_pengguna_id_key":
		return murid.ErrPenggunaIDExists
	case "murid_kelas_id_fkey":
		return murid.ErrKelasNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo muridRepository) CreateMurid(ctx context.Context, m murid.Murid, exec ...core.DBExecutor) (murid.Murid, error) {
	query := `
		INSERT INTO murid (pengguna_id, nisn, nama, jenis_kelamin, tanggal_lahir, alamat,
		                   kelas_id, nama_orang_tua, no_telp_orang_tua, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(
		ctx, query, m.PenggunaID, m.NISN, m.Nama, m.JenisKelamin, m.TanggalLahir, m.Alamat,
		m.KelasID, m.NamaOrangTua, m.NoTelpOrangTua, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return murid.Murid{}, repo.trapConstraintErr(err, "inserting murid")
	}
	return m, nil
}

func (repo muridRepository) GetMurid(ctx context.Context, filter murid.GetFilter, exec ...core.DBExecutor) (murid.Murid, error) {
	query := `SELECT * FROM murid WHERE `
	var arg interface{}
	switch {
	case filter.ID != 0:
		query += "id = $1"
		arg = filter.ID
	case filter.PenggunaID != 0:
		query += "pengguna_id = $1"
		arg = filter.PenggunaID
	default:
		query += "nisn = $1"
		arg = filter.NISN
	}

	var m murid.Murid
	if err := getExec(repo.exec, exec).GetContext(ctx, &m, query, arg); err != nil {
		return murid.Murid{}, repo.trapNoRowsErr(err, "finding murid")
	}
	return m, nil
}

func (repo muridRepository) FilterMurid(ctx context.Context, filter *murid.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]murid.Murid, error) {
	query := `SELECT * FROM murid`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := strconv.Itoa(len(args))
			conds = append(conds, "(nama ILIKE $"+n+" OR nisn ILIKE $"+n+" OR nama_orang_tua ILIKE $"+n+")")
		}
		if filter.KelasID != nil {
			args = append(args, *filter.KelasID)
			conds = append(conds, "kelas_id = $"+strconv.Itoa(len(args)))
		}
		if filter.JenisKelamin != "" {
			args = append(args, filter.JenisKelamin)
			conds = append(conds, "jenis_kelamin = $"+strconv.Itoa(len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, pg.Limit, pg.Offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	res := make([]murid.Murid, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying murid")
	}
	return res, nil
}

func (repo muridRepository) UpdateMurid(ctx context.Context, m murid.Murid, exec ...core.DBExecutor) (murid.Murid, error) {
	query := `
		UPDATE murid
		SET pengguna_id = $1, nisn = $2, nama = $3, jenis_kelamin = $4, tanggal_lahir = $5,
		    alamat = $6, kelas_id = $7, nama_orang_tua = $8, no_telp_orang_tua = $9
		WHERE id = $10`
	res, err := getExec(repo.exec, exec).ExecContext(
		ctx, query, m.PenggunaID, m.NISN, m.Nama, m.JenisKelamin, m.TanggalLahir,
		m.Alamat, m.KelasID, m.NamaOrangTua, m.NoTelpOrangTua, m.ID,
	)
	if err != nil {
		return murid.Murid{}, repo.trapConstraintErr(err, "updating murid")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return murid.Murid{}, murid.ErrNotFound
	}
	return m, nil
}

func (repo muridRepository) UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE murid SET nama = $1 WHERE pengguna_id = $2`, nama, penggunaID)
	return errors.Wrap(err, "updating murid nama")
}

func (repo muridRepository) AssignKelas(ctx context.Context, muridID, kelasID int, exec ...core.DBExecutor) error {
	res, err := getExec(repo.exec, exec).ExecContext(ctx, `UPDATE murid SET kelas_id = $1 WHERE id = $2`, kelasID, muridID)
	if err != nil {
		return repo.trapConstraintErr(err, "assigning kelas")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return murid.ErrNotFound
	}
	return nil
}

func (repo muridRepository) DeleteMurid(ctx context.Context, id int, exec ...core.DBExecutor) (murid.Murid, error) {
	var m murid.Murid
	err := getExec(repo.exec, exec).GetContext(ctx, &m, `DELETE FROM murid WHERE id = $1 RETURNING *`, id)
	if err != nil {
		return murid.Murid{}, repo.trapNoRowsErr(err, "deleting murid")
	}
	return m, nil
}

func (repo muridRepository) GetProfil(ctx context.Context, penggunaID int, exec ...core.DBExecutor) (murid.Profil, error) {
	query := `
		SELECT m.id, m.nama, m.nisn, m.kelas_id,
		       k.nama_kelas AS nama_kelas,
		       g.nama AS wali_kelas,
		       p.foto AS wali_kelas_foto
		FROM murid m
		LEFT JOIN kelas k ON k.id = m.kelas_id
		LEFT JOIN guru g ON g.id = k.wali_kelas_id
		LEFT JOIN pengguna p ON p.id = g.pengguna_id
		WHERE m.pengguna_id = $1`

	var prof murid.Profil
	if err := getExec(repo.exec, exec).GetContext(ctx, &prof, query, penggunaID); err != nil {
		return murid.Profil{}, repo.trapNoRowsErr(err, "finding murid profil")
	}
	return prof, nil
}

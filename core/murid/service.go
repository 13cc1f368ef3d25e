package murid

import (
	"context"
	"errors"
	"time"

	"github.com/sekolahku/backend/core"
)

var (
	// errors
	ErrNotFound         = errors.New("murid not found")
	ErrNISNExists       = errors.New("a murid with this NISN already exists")
	ErrPenggunaIDExists = errors.New("this pengguna is already linked to another murid")
	ErrKelasNotFound    = errors.New("referenced kelas does not exist")
)

type (
	Repository interface {
		CreateMurid(ctx context.Context, m Murid, exec ...core.DBExecutor) (Murid, error)
		GetMurid(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Murid, error)
		// FilterMurid applies AND on available QueryFilter fields.
		// QueryFilter.Search matches Nama or NISN, case-insensitive,
		// newest first.
		FilterMurid(ctx context.Context, filter *QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]Murid, error)
		UpdateMurid(ctx context.Context, m Murid, exec ...core.DBExecutor) (Murid, error)
		UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error
		AssignKelas(ctx context.Context, muridID, kelasID int, exec ...core.DBExecutor) error
		DeleteMurid(ctx context.Context, id int, exec ...core.DBExecutor) (Murid, error)
		// GetProfil joins the murid row with its kelas and wali kelas.
		GetProfil(ctx context.Context, penggunaID int, exec ...core.DBExecutor) (Profil, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) trapConflict(err error) error {
	switch err {
	case ErrNISNExists:
		return core.NewConflictError("NISN already exists", "NISN_ALREADY_EXISTS")
	case ErrPenggunaIDExists:
		return core.NewConflictError("Pengguna ID already assigned to another murid", "DUPLICATE_PENGGUNA_ID")
	case ErrKelasNotFound:
		return core.NewCodedValidationError("INVALID_KELAS_ID", "kelasId does not reference an existing kelas")
	}
	return err
}

func (svc *Service) Create(ctx context.Context, nm NewMurid) (Murid, error) {
	m := Murid{
		PenggunaID:     nm.PenggunaID,
		NISN:           nm.NISN,
		Nama:           nm.Nama,
		JenisKelamin:   nm.JenisKelamin,
		TanggalLahir:   nm.TanggalLahir,
		Alamat:         nm.Alamat,
		KelasID:        nm.KelasID,
		NamaOrangTua:   nm.NamaOrangTua,
		NoTelpOrangTua: nm.NoTelpOrangTua,
		CreatedAt:      time.Now().UTC(),
	}
	m, err := svc.repo.CreateMurid(ctx, m)
	if err != nil {
		return Murid{}, svc.trapConflict(err)
	}
	return m, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Murid, error) {
	m, err := svc.repo.GetMurid(ctx, GetFilter{ID: id})
	if err == ErrNotFound {
		return Murid{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	}
	return m, err
}

// GetByPenggunaID resolves the murid row of an authenticated account.
func (svc *Service) GetByPenggunaID(ctx context.Context, penggunaID int) (Murid, error) {
	m, err := svc.repo.GetMurid(ctx, GetFilter{PenggunaID: penggunaID})
	if err == ErrNotFound {
		return Murid{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	}
	return m, err
}

func (svc *Service) GetByNISN(ctx context.Context, nisn string) (Murid, error) {
	m, err := svc.repo.GetMurid(ctx, GetFilter{NISN: core.CleanString(nisn)})
	if err == ErrNotFound {
		return Murid{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	}
	return m, err
}

// GetProfil resolves the student dashboard view of an authenticated account.
func (svc *Service) GetProfil(ctx context.Context, penggunaID int) (Profil, error) {
	p, err := svc.repo.GetProfil(ctx, penggunaID)
	if err == ErrNotFound {
		return Profil{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	}
	return p, err
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, pg core.Pagination) ([]Murid, error) {
	pg.Clean()
	return svc.repo.FilterMurid(ctx, filter, pg)
}

func (svc *Service) Update(ctx context.Context, id int, um UpdateMurid) (Murid, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Murid{}, err
	}

	merged := orig
	if um.PenggunaID != nil {
		merged.PenggunaID = um.PenggunaID
	}
	if um.NISN != nil {
		merged.NISN = *um.NISN
	}
	if um.Nama != nil {
		merged.Nama = *um.Nama
	}
	if um.JenisKelamin != nil {
		merged.JenisKelamin = *um.JenisKelamin
	}
	if um.TanggalLahir != nil {
		merged.TanggalLahir = um.TanggalLahir
	}
	if um.Alamat != nil {
		merged.Alamat = um.Alamat
	}
	if um.KelasID != nil {
		merged.KelasID = um.KelasID
	}
	if um.NamaOrangTua != nil {
		merged.NamaOrangTua = um.NamaOrangTua
	}
	if um.NoTelpOrangTua != nil {
		merged.NoTelpOrangTua = um.NoTelpOrangTua
	}

	merged, err = svc.repo.UpdateMurid(ctx, merged)
	if err != nil {
		return Murid{}, svc.trapConflict(err)
	}
	return merged, nil
}

func (svc *Service) Delete(ctx context.Context, id int) (Murid, error) {
	m, err := svc.repo.DeleteMurid(ctx, id)
	if err == ErrNotFound {
		return Murid{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	}
	return m, err
}

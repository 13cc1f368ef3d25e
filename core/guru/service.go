package guru

import (
	"context"
	"errors"
	"time"

	"github.com/sekolahku/backend/core"
)

var (
	// errors
	ErrNotFound         = errors.New("guru not found")
	ErrNIPExists        = errors.New("a guru with this NIP already exists")
	ErrPenggunaIDExists = errors.New("this pengguna is already linked to another guru")
)

type (
	Repository interface {
		CreateGuru(ctx context.Context, g Guru, exec ...core.DBExecutor) (Guru, error)
		GetGuru(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Guru, error)
		// FilterGuru matches QueryFilter.Search against Nama, NIP or
		// MataPelajaran, case-insensitive, newest first.
		FilterGuru(ctx context.Context, filter *QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]Guru, error)
		UpdateGuru(ctx context.Context, g Guru, exec ...core.DBExecutor) (Guru, error)
		UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error
		DeleteGuru(ctx context.Context, id int, exec ...core.DBExecutor) (Guru, error)
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
	case ErrNIPExists:
		return core.NewConflictError("NIP already exists", "DUPLICATE_NIP")
	case ErrPenggunaIDExists:
		return core.NewConflictError("Pengguna ID already assigned to another guru", "DUPLICATE_PENGGUNA_ID")
	}
	return err
}

func (svc *Service) Create(ctx context.Context, ng NewGuru) (Guru, error) {
	g := Guru{
		PenggunaID:    ng.PenggunaID,
		NIP:           ng.NIP,
		Nama:          ng.Nama,
		MataPelajaran: ng.MataPelajaran,
		NoTelp:        ng.NoTelp,
		CreatedAt:     time.Now().UTC(),
	}
	g, err := svc.repo.CreateGuru(ctx, g)
	if err != nil {
		return Guru{}, svc.trapConflict(err)
	}
	return g, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Guru, error) {
	g, err := svc.repo.GetGuru(ctx, GetFilter{ID: id})
	if err == ErrNotFound {
		return Guru{}, core.NewNotFoundError("Guru not found", "NOT_FOUND")
	}
	return g, err
}

func (svc *Service) GetByNIP(ctx context.Context, nip string) (Guru, error) {
	g, err := svc.repo.GetGuru(ctx, GetFilter{NIP: core.CleanString(nip)})
	if err == ErrNotFound {
		return Guru{}, core.NewNotFoundError("Guru not found", "NOT_FOUND")
	}
	return g, err
}

// GetByPenggunaID resolves the guru profile of an authenticated account.
func (svc *Service) GetByPenggunaID(ctx context.Context, penggunaID int) (Guru, error) {
	g, err := svc.repo.GetGuru(ctx, GetFilter{PenggunaID: penggunaID})
	if err == ErrNotFound {
		return Guru{}, core.NewNotFoundError("Guru not found", "NOT_FOUND")
	}
	return g, err
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, pg core.Pagination) ([]Guru, error) {
	pg.Clean()
	return svc.repo.FilterGuru(ctx, filter, pg)
}

func (svc *Service) Update(ctx context.Context, id int, ug UpdateGuru) (Guru, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Guru{}, err
	}

	merged := orig
	if ug.PenggunaID != nil {
		merged.PenggunaID = ug.PenggunaID
	}
	if ug.NIP != nil {
		merged.NIP = *ug.NIP
	}
	if ug.Nama != nil {
		merged.Nama = *ug.Nama
	}
	if ug.MataPelajaran != nil {
		merged.MataPelajaran = *ug.MataPelajaran
	}
	if ug.NoTelp != nil {
		merged.NoTelp = ug.NoTelp
	}

	merged, err = svc.repo.UpdateGuru(ctx, merged)
	if err != nil {
		return Guru{}, svc.trapConflict(err)
	}
	return merged, nil
}

func (svc *Service) Delete(ctx context.Context, id int) (Guru, error) {
	g, err := svc.repo.DeleteGuru(ctx, id)
	if err == ErrNotFound {
		return Guru{}, core.NewNotFoundError("Guru not found", "NOT_FOUND")
	}
	return g, err
}

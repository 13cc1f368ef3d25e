package kelas

import (
	"context"
	"errors"
	"time"

	"github.com/sekolahku/backend/core"
)

var (
	// errors
	ErrNotFound     = errors.New("kelas not found")
	ErrGuruNotFound = errors.New("referenced guru does not exist")
)

type (
	Repository interface {
		CreateKelas(ctx context.Context, k Kelas, exec ...core.DBExecutor) (Kelas, error)
		GetKelas(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Kelas, error)
		// FilterKelas matches QueryFilter.Search against NamaKelas,
		// case-insensitive, newest first.
		FilterKelas(ctx context.Context, filter *QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]Kelas, error)
		UpdateKelas(ctx context.Context, k Kelas, exec ...core.DBExecutor) (Kelas, error)
		// IncrementJumlahSiswa atomically adjusts the enrolled-student
		// counter by delta.
		IncrementJumlahSiswa(ctx context.Context, id, delta int, exec ...core.DBExecutor) error
		DeleteKelas(ctx context.Context, id int, exec ...core.DBExecutor) (Kelas, error)
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
	if err == ErrGuruNotFound {
		return core.NewCodedValidationError("INVALID_ID", "waliKelasId does not reference an existing guru")
	}
	return err
}

func (svc *Service) Create(ctx context.Context, nk NewKelas) (Kelas, error) {
	k := Kelas{
		NamaKelas:   nk.NamaKelas,
		TahunAjaran: nk.TahunAjaran,
		WaliKelasID: nk.WaliKelasID,
		CreatedAt:   time.Now().UTC(),
	}
	if nk.JumlahSiswa != nil {
		k.JumlahSiswa = *nk.JumlahSiswa
	}
	k, err := svc.repo.CreateKelas(ctx, k)
	if err != nil {
		return Kelas{}, svc.trapConflict(err)
	}
	return k, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Kelas, error) {
	k, err := svc.repo.GetKelas(ctx, GetFilter{ID: id})
	if err == ErrNotFound {
		return Kelas{}, core.NewNotFoundError("Kelas not found", "NOT_FOUND")
	}
	return k, err
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, pg core.Pagination) ([]Kelas, error) {
	pg.Clean()
	return svc.repo.FilterKelas(ctx, filter, pg)
}

func (svc *Service) Update(ctx context.Context, id int, uk UpdateKelas) (Kelas, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Kelas{}, err
	}

	merged := orig
	if uk.NamaKelas != nil {
		merged.NamaKelas = *uk.NamaKelas
	}
	if uk.TahunAjaran != nil {
		merged.TahunAjaran = *uk.TahunAjaran
	}
	if uk.WaliKelasID != nil {
		merged.WaliKelasID = uk.WaliKelasID
	}
	if uk.JumlahSiswa != nil {
		merged.JumlahSiswa = *uk.JumlahSiswa
	}

	merged, err = svc.repo.UpdateKelas(ctx, merged)
	if err != nil {
		return Kelas{}, svc.trapConflict(err)
	}
	return merged, nil
}

func (svc *Service) Delete(ctx context.Context, id int) (Kelas, error) {
	k, err := svc.repo.DeleteKelas(ctx, id)
	if err == ErrNotFound {
		return Kelas{}, core.NewNotFoundError("Kelas not found", "NOT_FOUND")
	}
	return k, err
}

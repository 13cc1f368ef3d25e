package nilai

import (
	"context"
	"errors"
	"time"

	"github.com/sekolahku/backend/core"
)

var (
	// errors
	ErrNotFound      = errors.New("nilai not found")
	ErrMuridNotFound = errors.New("referenced murid does not exist")
)

type (
	Repository interface {
		CreateNilai(ctx context.Context, n Nilai, exec ...core.DBExecutor) (Nilai, error)
		// FilterNilai lists a murid's grades, optionally narrowed to a
		// single assessment type, newest first.
		FilterNilai(ctx context.Context, filter *QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]Nilai, error)
		// Rekap averages a murid's grades per subject, subject ascending.
		Rekap(ctx context.Context, muridID int, exec ...core.DBExecutor) ([]RekapEntry, error)
		DeleteNilai(ctx context.Context, id int, exec ...core.DBExecutor) (Nilai, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) Create(ctx context.Context, nn NewNilai) (Nilai, error) {
	n := Nilai{
		MuridID:       nn.MuridID,
		MataPelajaran: nn.MataPelajaran,
		Skor:          *nn.Skor,
		Tipe:          nn.Tipe,
		Tanggal:       nn.Tanggal,
		CreatedAt:     time.Now().UTC(),
	}
	n, err := svc.repo.CreateNilai(ctx, n)
	if err == ErrMuridNotFound {
		return Nilai{}, core.NewCodedValidationError("INVALID_ID", "muridId does not reference an existing murid")
	}
	if err != nil {
		return Nilai{}, err
	}
	return n, nil
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, pg core.Pagination) ([]Nilai, error) {
	if filter == nil || filter.MuridID <= 0 {
		return nil, core.NewCodedValidationError("INVALID_ID", "muridId must be a positive integer")
	}
	pg.Clean()
	return svc.repo.FilterNilai(ctx, filter, pg)
}

func (svc *Service) Rekap(ctx context.Context, muridID int) ([]RekapEntry, error) {
	if muridID <= 0 {
		return nil, core.NewCodedValidationError("INVALID_ID", "muridId must be a positive integer")
	}
	return svc.repo.Rekap(ctx, muridID)
}

func (svc *Service) Delete(ctx context.Context, id int) (Nilai, error) {
	n, err := svc.repo.DeleteNilai(ctx, id)
	if err == ErrNotFound {
		return Nilai{}, core.NewNotFoundError("Nilai not found", "NOT_FOUND")
	}
	return n, err
}

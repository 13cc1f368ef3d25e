package pengguna

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
	"github.com/sekolahku/backend/core/murid"
)

var (
	// errors
	ErrNotFound       = errors.New("pengguna not found")
	ErrUsernameExists = errors.New("a pengguna with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string, excluded []Pengguna, exec ...core.DBExecutor) error
		CreatePengguna(ctx context.Context, p Pengguna, exec ...core.DBExecutor) (Pengguna, error)
		GetPengguna(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Pengguna, error)
		// FilterPengguna applies AND on available QueryFilter fields.
		// QueryFilter.Search matches Username or Nama, case-insensitive.
		FilterPengguna(ctx context.Context, filter *QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]Pengguna, error)
		UpdatePengguna(ctx context.Context, p Pengguna, exec ...core.DBExecutor) (Pengguna, error)
		UpdatePassword(ctx context.Context, id int, hash []byte, exec ...core.DBExecutor) error
		DeletePengguna(ctx context.Context, id int, exec ...core.DBExecutor) (Pengguna, error)
	}

	Service struct {
		db        core.DB
		repo      Repository
		guruRepo  guru.Repository
		muridRepo murid.Repository
	}
)

func NewService(db core.DB, repo Repository, guruRepo guru.Repository, muridRepo murid.Repository) *Service {
	return &Service{db: db, repo: repo, guruRepo: guruRepo, muridRepo: muridRepo}
}

func (svc *Service) checkUniqueness(uname string, excluded ...Pengguna) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, excluded); err != nil {
		if err == ErrUsernameExists {
			return core.NewConflictError("Username already exists", "DUPLICATE_USERNAME")
		}
		return err
	}
	return nil
}

// Create provisions a new account. A guru or murid role also gets its
// linked profile row with a placeholder NIP/NISN, in the same transaction,
// so a later read never has to materialize it.
func (svc *Service) Create(ctx context.Context, np NewPengguna) (Pengguna, error) {
	now := time.Now().UTC()
	p := Pengguna{
		Username:  np.Username,
		Role:      np.Role,
		Nama:      np.Nama,
		Email:     np.Email,
		Foto:      np.Foto,
		CreatedAt: now,
	}
	if err := p.SetPassword(np.Password); err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "hashing password")
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	p, err = svc.repo.CreatePengguna(ctx, p, tx)
	if err != nil {
		if err == ErrUsernameExists {
			return Pengguna{}, core.NewConflictError("Username already exists", "DUPLICATE_USERNAME")
		}
		return Pengguna{}, err
	}

	switch p.Role {
	case RoleGuru:
		_, err = svc.guruRepo.CreateGuru(ctx, guru.Guru{
			PenggunaID:    &p.ID,
			NIP:           placeholderID(),
			Nama:          p.Nama,
			MataPelajaran: "Umum",
			CreatedAt:     now,
		}, tx)
	case RoleMurid:
		_, err = svc.muridRepo.CreateMurid(ctx, murid.Murid{
			PenggunaID:   &p.ID,
			NISN:         placeholderID(),
			Nama:         p.Nama,
			JenisKelamin: murid.GenderMale,
			CreatedAt:    now,
		}, tx)
	}
	if err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "provisioning profile row")
	}

	if err = tx.Commit(); err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "committing transaction")
	}
	return p, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Pengguna, error) {
	p, err := svc.repo.GetPengguna(ctx, GetFilter{ID: id})
	if err == ErrNotFound {
		return Pengguna{}, core.NewNotFoundError("User not found", "USER_NOT_FOUND")
	}
	return p, err
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Pengguna, error) {
	p, err := svc.repo.GetPengguna(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
	if err == ErrNotFound {
		return Pengguna{}, core.NewNotFoundError("User not found", "USER_NOT_FOUND")
	}
	return p, err
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, pg core.Pagination) ([]Pengguna, error) {
	pg.Clean()
	return svc.repo.FilterPengguna(ctx, filter, pg)
}

// Update applies only the provided fields. A nama change cascades to the
// linked guru/murid row's denormalized name copy in the same transaction.
func (svc *Service) Update(ctx context.Context, id int, up UpdatePengguna) (Pengguna, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Pengguna{}, err
	}

	merged := orig
	if up.Username != nil {
		merged.Username = *up.Username
	}
	if up.Role != nil {
		merged.Role = *up.Role
	}
	if up.Nama != nil {
		merged.Nama = *up.Nama
	}
	if up.Email != nil {
		merged.Email = up.Email
	}
	if up.Foto != nil {
		merged.Foto = up.Foto
	}

	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	merged, err = svc.repo.UpdatePengguna(ctx, merged, tx)
	if err != nil {
		if err == ErrUsernameExists {
			return Pengguna{}, core.NewConflictError("Username already exists", "DUPLICATE_USERNAME")
		}
		return Pengguna{}, err
	}

	if up.Nama != nil && *up.Nama != orig.Nama {
		if err = svc.guruRepo.UpdateNamaByPenggunaID(ctx, id, merged.Nama, tx); err != nil {
			return Pengguna{}, pkgerrors.Wrap(err, "cascading nama to guru")
		}
		if err = svc.muridRepo.UpdateNamaByPenggunaID(ctx, id, merged.Nama, tx); err != nil {
			return Pengguna{}, pkgerrors.Wrap(err, "cascading nama to murid")
		}
	}

	if err = tx.Commit(); err != nil {
		return Pengguna{}, pkgerrors.Wrap(err, "committing transaction")
	}
	return merged, nil
}

func (svc *Service) ChangePassword(ctx context.Context, cp ChangePassword) error {
	p, err := svc.GetByID(ctx, cp.ID)
	if err != nil {
		return err
	}
	if err = p.CheckPassword(cp.CurrentPassword); err != nil {
		return core.NewCodedValidationError("WRONG_PASSWORD", "Password saat ini salah")
	}
	if err = p.SetPassword(cp.NewPassword); err != nil {
		return pkgerrors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdatePassword(ctx, p.ID, p.PasswordHash)
}

func (svc *Service) Delete(ctx context.Context, id int) (Pengguna, error) {
	p, err := svc.repo.DeletePengguna(ctx, id)
	if err == ErrNotFound {
		return Pengguna{}, core.NewNotFoundError("User not found", "USER_NOT_FOUND")
	}
	return p, err
}

// placeholderID builds the provisional NIP/NISN assigned at account
// creation, to be replaced by staff with the real identifier.
func placeholderID() string {
	return "TEMP-" + strings.ToUpper(uuid.New().String()[:8])
}

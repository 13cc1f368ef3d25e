package permintaan

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/kelas"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/pengguna"
)

var (
	// errors
	ErrNotFound         = errors.New("permintaan not found")
	ErrDuplicateRequest = errors.New("a pending request for this murid and kelas already exists")
	ErrMuridNotFound    = errors.New("referenced murid does not exist")
	ErrKelasNotFound    = errors.New("referenced kelas does not exist")
)

type (
	Repository interface {
		CreatePermintaan(ctx context.Context, p Permintaan, exec ...core.DBExecutor) (Permintaan, error)
		GetPermintaan(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Permintaan, error)
		// FilterPending lists pending requests enriched with murid and
		// kelas info, oldest first. A non-nil waliKelasGuruID narrows
		// the queue to classes the guru is wali kelas of.
		FilterPending(ctx context.Context, waliKelasGuruID *int, pg core.Pagination, exec ...core.DBExecutor) ([]PendingRequest, error)
		UpdateStatus(ctx context.Context, id int, status string, exec ...core.DBExecutor) error
	}

	Service struct {
		db           core.DB
		repo         Repository
		muridRepo    murid.Repository
		kelasRepo    kelas.Repository
		penggunaRepo pengguna.Repository
		mailSvc      core.EmailService
		logger       core.Logger
	}
)

func NewService(
	db core.DB,
	repo Repository,
	muridRepo murid.Repository,
	kelasRepo kelas.Repository,
	penggunaRepo pengguna.Repository,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		db:           db,
		repo:         repo,
		muridRepo:    muridRepo,
		kelasRepo:    kelasRepo,
		penggunaRepo: penggunaRepo,
		mailSvc:      mailSvc,
		logger:       logger,
	}
}

// Submit files a new pending enrollment request. The one-pending-per
// (murid, kelas) rule is enforced by the storage layer so two
// concurrent submissions cannot both slip through.
func (svc *Service) Submit(ctx context.Context, np NewPermintaan) (Permintaan, error) {
	p := Permintaan{
		MuridID:   np.MuridID,
		KelasID:   np.KelasID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	p, err := svc.repo.CreatePermintaan(ctx, p)
	switch err {
	case nil:
		return p, nil
	case ErrDuplicateRequest:
		return Permintaan{}, core.NewConflictError(
			"A pending request for this murid and kelas already exists", "DUPLICATE_REQUEST")
	case ErrMuridNotFound:
		return Permintaan{}, core.NewNotFoundError("Murid not found", "NOT_FOUND")
	case ErrKelasNotFound:
		return Permintaan{}, core.NewNotFoundError("Kelas not found", "NOT_FOUND")
	}
	return Permintaan{}, err
}

func (svc *Service) GetByID(ctx context.Context, id int) (Permintaan, error) {
	p, err := svc.repo.GetPermintaan(ctx, GetFilter{ID: id})
	if err == ErrNotFound {
		return Permintaan{}, core.NewNotFoundError("Permintaan not found", "NOT_FOUND")
	}
	return p, err
}

// KelasOf resolves the kelas a request targets.
func (svc *Service) KelasOf(ctx context.Context, p Permintaan) (kelas.Kelas, error) {
	k, err := svc.kelasRepo.GetKelas(ctx, kelas.GetFilter{ID: p.KelasID})
	if err == kelas.ErrNotFound {
		return kelas.Kelas{}, core.NewNotFoundError("Kelas not found", "NOT_FOUND")
	}
	return k, err
}

// Pending returns the review queue. Admins pass a nil scope and see
// everything; a guru passes their own ID and only sees requests for
// classes they are wali kelas of.
func (svc *Service) Pending(ctx context.Context, waliKelasGuruID *int, pg core.Pagination) ([]PendingRequest, error) {
	pg.Clean()
	return svc.repo.FilterPending(ctx, waliKelasGuruID, pg)
}

// Resolve applies a decision to a pending request. The request row is
// locked for the whole transaction, so a concurrent resolution of the
// same request observes the terminal status and fails with
// ALREADY_RESOLVED. An approval also assigns the murid to the kelas and
// bumps the class counter, all-or-nothing.
func (svc *Service) Resolve(ctx context.Context, id int, rp ResolvePermintaan) (Permintaan, error) {
	tx, err := svc.db.Begin(ctx)
	if err != nil {
		return Permintaan{}, pkgerrors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	p, err := svc.repo.GetPermintaan(ctx, GetFilter{ID: id, ForUpdate: true}, tx)
	if err == ErrNotFound {
		return Permintaan{}, core.NewNotFoundError("Permintaan not found", "NOT_FOUND")
	}
	if err != nil {
		return Permintaan{}, err
	}
	if p.IsResolved() {
		return Permintaan{}, core.NewConflictError("Request has already been resolved", "ALREADY_RESOLVED")
	}

	if err = svc.repo.UpdateStatus(ctx, p.ID, rp.Status, tx); err != nil {
		return Permintaan{}, pkgerrors.Wrap(err, "updating status")
	}
	if rp.Status == StatusApproved {
		if err = svc.muridRepo.AssignKelas(ctx, p.MuridID, p.KelasID, tx); err != nil {
			return Permintaan{}, pkgerrors.Wrap(err, "assigning murid to kelas")
		}
		if err = svc.kelasRepo.IncrementJumlahSiswa(ctx, p.KelasID, 1, tx); err != nil {
			return Permintaan{}, pkgerrors.Wrap(err, "incrementing jumlah siswa")
		}
	}

	if err = tx.Commit(); err != nil {
		return Permintaan{}, pkgerrors.Wrap(err, "committing transaction")
	}
	p.Status = rp.Status

	svc.notifyDecision(ctx, p)
	return p, nil
}

// notifyDecision emails the murid's linked account, when one exists and
// carries an email address. Best effort; the decision stands either way.
func (svc *Service) notifyDecision(ctx context.Context, p Permintaan) {
	m, err := svc.muridRepo.GetMurid(ctx, murid.GetFilter{ID: p.MuridID})
	if err != nil || m.PenggunaID == nil {
		return
	}
	acct, err := svc.penggunaRepo.GetPengguna(ctx, pengguna.GetFilter{ID: *m.PenggunaID})
	if err != nil || acct.Email == nil {
		return
	}
	k, err := svc.kelasRepo.GetKelas(ctx, kelas.GetFilter{ID: p.KelasID})
	if err != nil {
		svc.logger.Warn("permintaan: kelas lookup for notification failed", err)
		return
	}

	var subject, body string
	if p.Status == StatusApproved {
		subject = "Permintaan kelas disetujui"
		body = fmt.Sprintf("Halo %s,\n\nPermintaan Anda untuk bergabung dengan kelas %s telah disetujui.", m.Nama, k.NamaKelas)
	} else {
		subject = "Permintaan kelas ditolak"
		body = fmt.Sprintf("Halo %s,\n\nPermintaan Anda untuk bergabung dengan kelas %s telah ditolak.", m.Nama, k.NamaKelas)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: m.Nama, Address: *acct.Email}},
		Subject: subject,
		Body:    body,
	})
}

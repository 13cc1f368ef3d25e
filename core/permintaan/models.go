package permintaan

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/backend/core"
)

// Request states
const (
	StatusPending  = "pending"
	StatusApproved = "disetujui"
	StatusRejected = "ditolak"
)

type Permintaan struct {
	ID        int       `json:"id" db:"id"`
	MuridID   int       `json:"muridId" db:"murid_id"`
	KelasID   int       `json:"kelasId" db:"kelas_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
}

// IsResolved reports whether the request has reached a terminal state.
func (p *Permintaan) IsResolved() bool {
	return p.Status == StatusApproved || p.Status == StatusRejected
}

// PendingRequest is the review-queue view: the request enriched with
// the murid and kelas it concerns.
type PendingRequest struct {
	ID        int       `json:"id" db:"id"`
	MuridID   int       `json:"muridId" db:"murid_id"`
	NamaMurid string    `json:"namaMurid" db:"nama_murid"`
	NISN      string    `json:"nisn" db:"nisn"`
	KelasID   int       `json:"kelasId" db:"kelas_id"`
	NamaKelas string    `json:"namaKelas" db:"nama_kelas"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// GetFilter selects a single Permintaan. ForUpdate locks the row for
// the remainder of the transaction.
type GetFilter struct {
	ID        int
	ForUpdate bool
}

// NewPermintaan contains information needed to submit an enrollment request.
type NewPermintaan struct {
	MuridID int `json:"muridId" validate:"required,min=1"`
	KelasID int `json:"kelasId" validate:"required,min=1"`
}

func (np *NewPermintaan) Validate(validate *validator.Validate, translator ut.Translator) error {
	if np.MuridID == 0 || np.KelasID == 0 {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: muridId, kelasId")
	}
	if np.MuridID < 0 {
		return core.NewCodedValidationError("INVALID_ID", "muridId must be a positive integer")
	}
	if np.KelasID < 0 {
		return core.NewCodedValidationError("INVALID_KELAS_ID", "kelasId must be a positive integer")
	}
	return validate.Struct(np)
}

// ResolvePermintaan carries the reviewer's decision.
type ResolvePermintaan struct {
	Status string `json:"status" validate:"required,oneof=disetujui ditolak"`
}

func (rp *ResolvePermintaan) Validate(validate *validator.Validate, translator ut.Translator) error {
	rp.Status = core.CleanString(rp.Status)
	if rp.Status == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS", "Required fields are missing: status")
	}
	if rp.Status != StatusApproved && rp.Status != StatusRejected {
		return core.NewCodedValidationError("INVALID_STATUS", `status must be either "disetujui" or "ditolak"`)
	}
	return validate.Struct(rp)
}

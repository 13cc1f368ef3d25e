package guru

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/backend/core"
)

type Guru struct {
	ID            int       `json:"id" db:"id"`
	PenggunaID    *int      `json:"penggunaId" db:"pengguna_id"`
	NIP           string    `json:"nip" db:"nip"`
	Nama          string    `json:"nama" db:"nama"`
	MataPelajaran string    `json:"mataPelajaran" db:"mata_pelajaran"`
	NoTelp        *string   `json:"noTelp" db:"no_telp"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"` // UTC
}

// NewGuru contains information needed to create a new Guru.
type NewGuru struct {
	PenggunaID    *int    `json:"penggunaId"`
	NIP           string  `json:"nip" validate:"required"`
	Nama          string  `json:"nama" validate:"required"`
	MataPelajaran string  `json:"mataPelajaran" validate:"required"`
	NoTelp        *string `json:"noTelp"`
}

func (ng *NewGuru) Validate(validate *validator.Validate, translator ut.Translator) error {
	ng.NIP = core.CleanString(ng.NIP)
	ng.Nama = core.CleanString(ng.Nama)
	ng.MataPelajaran = core.CleanString(ng.MataPelajaran)
	ng.NoTelp = core.CleanStringPtr(ng.NoTelp)

	if ng.NIP == "" && ng.Nama == "" && ng.MataPelajaran == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: nip, nama, mataPelajaran")
	}
	if ng.NIP == "" {
		return core.NewCodedValidationError("INVALID_NIP", "NIP cannot be empty")
	}
	if ng.Nama == "" {
		return core.NewCodedValidationError("INVALID_NAMA", "Nama cannot be empty")
	}
	if ng.MataPelajaran == "" {
		return core.NewCodedValidationError("INVALID_MATA_PELAJARAN", "Mata pelajaran cannot be empty")
	}
	return validate.Struct(ng)
}

// UpdateGuru defines what information may be provided to modify an
// existing Guru. Absent fields do not overwrite stored data.
type UpdateGuru struct {
	PenggunaID    *int    `json:"penggunaId"`
	NIP           *string `json:"nip"`
	Nama          *string `json:"nama"`
	MataPelajaran *string `json:"mataPelajaran"`
	NoTelp        *string `json:"noTelp"`
}

func (ug *UpdateGuru) Validate(validate *validator.Validate, translator ut.Translator) error {
	ug.NIP = core.CleanStringPtr(ug.NIP)
	ug.Nama = core.CleanStringPtr(ug.Nama)
	ug.MataPelajaran = core.CleanStringPtr(ug.MataPelajaran)
	ug.NoTelp = core.CleanStringPtr(ug.NoTelp)

	if ug.NIP != nil && *ug.NIP == "" {
		return core.NewCodedValidationError("INVALID_NIP", "NIP cannot be empty")
	}
	if ug.Nama != nil && *ug.Nama == "" {
		return core.NewCodedValidationError("INVALID_NAMA", "Nama cannot be empty")
	}
	if ug.MataPelajaran != nil && *ug.MataPelajaran == "" {
		return core.NewCodedValidationError("INVALID_MATA_PELAJARAN", "Mata pelajaran cannot be empty")
	}
	return validate.Struct(ug)
}

// GetFilter selects a single Guru by ID, natural key or linked account.
type GetFilter struct {
	ID         int
	NIP        string
	PenggunaID int
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

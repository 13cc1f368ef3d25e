package kelas

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/backend/core"
)

type Kelas struct {
	ID          int       `json:"id" db:"id"`
	NamaKelas   string    `json:"namaKelas" db:"nama_kelas"`
	TahunAjaran string    `json:"tahunAjaran" db:"tahun_ajaran"`
	WaliKelasID *int      `json:"waliKelasId" db:"wali_kelas_id"`
	JumlahSiswa int       `json:"jumlahSiswa" db:"jumlah_siswa"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"` // UTC
}

// NewKelas contains information needed to create a new Kelas.
type NewKelas struct {
	NamaKelas   string `json:"namaKelas" validate:"required"`
	TahunAjaran string `json:"tahunAjaran" validate:"required,tahun_ajaran"`
	WaliKelasID *int   `json:"waliKelasId"`
	JumlahSiswa *int   `json:"jumlahSiswa"`
}

func (nk *NewKelas) Validate(validate *validator.Validate, translator ut.Translator) error {
	nk.NamaKelas = core.CleanString(nk.NamaKelas)
	nk.TahunAjaran = core.CleanString(nk.TahunAjaran)

	if nk.NamaKelas == "" && nk.TahunAjaran == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: namaKelas, tahunAjaran")
	}
	if nk.NamaKelas == "" {
		return core.NewCodedValidationError("INVALID_NAMA_KELAS", "namaKelas must be a non-empty string")
	}
	if nk.TahunAjaran == "" {
		return core.NewCodedValidationError("INVALID_TAHUN_AJARAN", `tahunAjaran must look like "2024/2025"`)
	}
	if nk.JumlahSiswa != nil && *nk.JumlahSiswa < 0 {
		return core.NewCodedValidationError("INVALID_JUMLAH_SISWA", "jumlahSiswa must not be negative")
	}
	return validate.Struct(nk)
}

// UpdateKelas defines what information may be provided to modify an
// existing Kelas. Absent fields do not overwrite stored data.
type UpdateKelas struct {
	NamaKelas   *string `json:"namaKelas"`
	TahunAjaran *string `json:"tahunAjaran" validate:"omitempty,tahun_ajaran"`
	WaliKelasID *int    `json:"waliKelasId"`
	JumlahSiswa *int    `json:"jumlahSiswa"`
}

func (uk *UpdateKelas) Validate(validate *validator.Validate, translator ut.Translator) error {
	uk.NamaKelas = core.CleanStringPtr(uk.NamaKelas)
	uk.TahunAjaran = core.CleanStringPtr(uk.TahunAjaran)

	if uk.NamaKelas == nil && uk.TahunAjaran == nil && uk.WaliKelasID == nil && uk.JumlahSiswa == nil {
		return core.NewCodedValidationError("NO_UPDATES", "No valid fields to update")
	}
	if uk.NamaKelas != nil && *uk.NamaKelas == "" {
		return core.NewCodedValidationError("INVALID_NAMA_KELAS", "namaKelas must be a non-empty string")
	}
	if uk.TahunAjaran != nil && *uk.TahunAjaran == "" {
		return core.NewCodedValidationError("INVALID_TAHUN_AJARAN", `tahunAjaran must look like "2024/2025"`)
	}
	if uk.JumlahSiswa != nil && *uk.JumlahSiswa < 0 {
		return core.NewCodedValidationError("INVALID_JUMLAH_SISWA", "jumlahSiswa must not be negative")
	}
	return validate.Struct(uk)
}

// GetFilter selects a single Kelas.
type GetFilter struct {
	ID int
}

type QueryFilter struct {
	Search      string `query:"search"`
	TahunAjaran string `query:"tahunAjaran"`
	WaliKelasID *int   `query:"waliKelasId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.TahunAjaran = core.CleanString(qf.TahunAjaran)
}

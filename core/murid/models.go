package murid

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/backend/core"
)

// Gender values
const (
	GenderMale   = "L"
	GenderFemale = "P"
)

type Murid struct {
	ID             int       `json:"id" db:"id"`
	PenggunaID     *int      `json:"penggunaId" db:"pengguna_id"`
	NISN           string    `json:"nisn" db:"nisn"`
	Nama           string    `json:"nama" db:"nama"`
	JenisKelamin   string    `json:"jenisKelamin" db:"jenis_kelamin"`
	TanggalLahir   *string   `json:"tanggalLahir" db:"tanggal_lahir"`
	Alamat         *string   `json:"alamat" db:"alamat"`
	KelasID        *int      `json:"kelasId" db:"kelas_id"`
	NamaOrangTua   *string   `json:"namaOrangTua" db:"nama_orang_tua"`
	NoTelpOrangTua *string   `json:"noTelpOrangTua" db:"no_telp_orang_tua"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"` // UTC
}

// Profil is the student dashboard view: the murid row enriched with its
// class and homeroom teacher.
type Profil struct {
	ID            int     `json:"id" db:"id"`
	Nama          string  `json:"nama" db:"nama"`
	NISN          string  `json:"nisn" db:"nisn"`
	KelasID       *int    `json:"kelasId" db:"kelas_id"`
	NamaKelas     *string `json:"namaKelas" db:"nama_kelas"`
	WaliKelas     *string `json:"waliKelas" db:"wali_kelas"`
	WaliKelasFoto *string `json:"waliKelasFoto" db:"wali_kelas_foto"`
}

// NewMurid contains information needed to create a new Murid.
type NewMurid struct {
	PenggunaID     *int    `json:"penggunaId"`
	NISN           string  `json:"nisn" validate:"required"`
	Nama           string  `json:"nama" validate:"required"`
	JenisKelamin   string  `json:"jenisKelamin" validate:"required,oneof=L P"`
	TanggalLahir   *string `json:"tanggalLahir"`
	Alamat         *string `json:"alamat"`
	KelasID        *int    `json:"kelasId"`
	NamaOrangTua   *string `json:"namaOrangTua"`
	NoTelpOrangTua *string `json:"noTelpOrangTua"`
}

func (nm *NewMurid) Validate(validate *validator.Validate, translator ut.Translator) error {
	nm.NISN = core.CleanString(nm.NISN)
	nm.Nama = core.CleanString(nm.Nama)
	nm.Alamat = core.CleanStringPtr(nm.Alamat)
	nm.NamaOrangTua = core.CleanStringPtr(nm.NamaOrangTua)
	nm.NoTelpOrangTua = core.CleanStringPtr(nm.NoTelpOrangTua)

	if nm.NISN == "" && nm.Nama == "" && nm.JenisKelamin == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: nisn, nama, jenisKelamin")
	}
	if nm.NISN == "" {
		return core.NewCodedValidationError("INVALID_NISN", "nisn must be a non-empty string")
	}
	if nm.Nama == "" {
		return core.NewCodedValidationError("INVALID_NAMA", "nama must be a non-empty string")
	}
	if nm.JenisKelamin != GenderMale && nm.JenisKelamin != GenderFemale {
		return core.NewCodedValidationError("INVALID_GENDER", `jenisKelamin must be either "L" or "P"`)
	}
	return validate.Struct(nm)
}

// UpdateMurid defines what information may be provided to modify an
// existing Murid. Absent fields do not overwrite stored data.
type UpdateMurid struct {
	PenggunaID     *int    `json:"penggunaId"`
	NISN           *string `json:"nisn"`
	Nama           *string `json:"nama"`
	JenisKelamin   *string `json:"jenisKelamin"`
	TanggalLahir   *string `json:"tanggalLahir"`
	Alamat         *string `json:"alamat"`
	KelasID        *int    `json:"kelasId"`
	NamaOrangTua   *string `json:"namaOrangTua"`
	NoTelpOrangTua *string `json:"noTelpOrangTua"`
}

func (um *UpdateMurid) Validate(validate *validator.Validate, translator ut.Translator) error {
	um.NISN = core.CleanStringPtr(um.NISN)
	um.Nama = core.CleanStringPtr(um.Nama)
	um.Alamat = core.CleanStringPtr(um.Alamat)
	um.NamaOrangTua = core.CleanStringPtr(um.NamaOrangTua)
	um.NoTelpOrangTua = core.CleanStringPtr(um.NoTelpOrangTua)

	if um.NISN != nil && *um.NISN == "" {
		return core.NewCodedValidationError("INVALID_NISN", "nisn must be a non-empty string")
	}
	if um.Nama != nil && *um.Nama == "" {
		return core.NewCodedValidationError("INVALID_NAMA", "nama must be a non-empty string")
	}
	if um.JenisKelamin != nil && *um.JenisKelamin != GenderMale && *um.JenisKelamin != GenderFemale {
		return core.NewCodedValidationError("INVALID_GENDER", `jenisKelamin must be either "L" or "P"`)
	}
	return validate.Struct(um)
}

// GetFilter selects a single Murid by ID, natural key or linked account.
type GetFilter struct {
	ID         int
	NISN       string
	PenggunaID int
}

type QueryFilter struct {
	Search       string `query:"search"`
	KelasID      *int   `query:"kelasId"`
	JenisKelamin string `query:"jenisKelamin"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.JenisKelamin = core.CleanString(qf.JenisKelamin)
}

package nilai

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/backend/core"
)

// Assessment types
const (
	TipeTugas = "Tugas"
	TipeUTS   = "UTS"
	TipeUAS   = "UAS"
)

type Nilai struct {
	ID            int       `json:"id" db:"id"`
	MuridID       int       `json:"muridId" db:"murid_id"`
	MataPelajaran string    `json:"mataPelajaran" db:"mata_pelajaran"`
	Skor          int       `json:"skor" db:"skor"`
	Tipe          string    `json:"tipe" db:"tipe"`
	Tanggal       *string   `json:"tanggal" db:"tanggal"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"` // UTC
}

// RekapEntry is one row of the per-subject grade report.
type RekapEntry struct {
	MataPelajaran string  `json:"mataPelajaran" db:"mata_pelajaran"`
	RataRata      float64 `json:"rataRata" db:"rata_rata"`
	JumlahNilai   int     `json:"jumlahNilai" db:"jumlah_nilai"`
}

// NewNilai contains information needed to record a grade.
type NewNilai struct {
	MuridID       int     `json:"muridId" validate:"required"`
	MataPelajaran string  `json:"mataPelajaran" validate:"required"`
	Skor          *int    `json:"skor" validate:"required,min=0,max=100"`
	Tipe          string  `json:"tipe" validate:"required,oneof=Tugas UTS UAS"`
	Tanggal       *string `json:"tanggal"`
}

func (nn *NewNilai) Validate(validate *validator.Validate, translator ut.Translator) error {
	nn.MataPelajaran = core.CleanString(nn.MataPelajaran)

	if nn.MuridID == 0 || nn.MataPelajaran == "" || nn.Skor == nil || nn.Tipe == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: muridId, mataPelajaran, skor, tipe")
	}
	if nn.MuridID < 0 {
		return core.NewCodedValidationError("INVALID_ID", "muridId must be a positive integer")
	}
	return validate.Struct(nn)
}

type QueryFilter struct {
	MuridID int    `query:"muridId"`
	Tipe    string `query:"tipe"`
}

func (qf *QueryFilter) Clean() {
	qf.Tipe = core.CleanString(qf.Tipe)
}

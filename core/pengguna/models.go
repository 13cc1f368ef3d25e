package pengguna

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/backend/core"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleGuru  = "guru"
	RoleMurid = "murid"
)

var AllRoles = []string{RoleAdmin, RoleGuru, RoleMurid}

type Pengguna struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Nama         string    `json:"nama" db:"nama"`
	Email        *string   `json:"email" db:"email"`
	Foto         *string   `json:"foto" db:"foto"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // UTC
}

func (p *Pengguna) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Pengguna) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

func (p *Pengguna) IsAdmin() bool { return p.Role == RoleAdmin }
func (p *Pengguna) IsGuru() bool  { return p.Role == RoleGuru }
func (p *Pengguna) IsMurid() bool { return p.Role == RoleMurid }

// NewPengguna contains information needed to create a new Pengguna.
type NewPengguna struct {
	Username string  `json:"username" validate:"required,min=4,alphanum_"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=admin guru murid"`
	Nama     string  `json:"nama" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Foto     *string `json:"foto"`
}

func (np *NewPengguna) Validate(validate *validator.Validate, translator ut.Translator, svc *Service) error {
	np.Username = core.CleanString(np.Username, true /* lower */)
	np.Nama = core.CleanString(np.Nama)
	np.Email = core.CleanStringPtr(np.Email, true /* lower */)

	if np.Username == "" || np.Password == "" || np.Role == "" || np.Nama == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS",
			"Required fields are missing: username, password, role, nama")
	}
	if np.Role != RoleAdmin && np.Role != RoleGuru && np.Role != RoleMurid {
		return core.NewCodedValidationError("INVALID_ROLE", `role must be one of "admin", "guru" or "murid"`)
	}
	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.checkUniqueness(np.Username)
}

// UpdatePengguna defines what information may be provided to modify an
// existing Pengguna. Absent fields do not overwrite stored data.
type UpdatePengguna struct {
	Username *string `json:"username" validate:"omitempty,min=4,alphanum_"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin guru murid"`
	Nama     *string `json:"nama"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Foto     *string `json:"foto"`
}

func (up *UpdatePengguna) Validate(orig Pengguna, validate *validator.Validate, translator ut.Translator, svc *Service) error {
	up.Username = core.CleanStringPtr(up.Username, true /* lower */)
	up.Nama = core.CleanStringPtr(up.Nama)
	up.Email = core.CleanStringPtr(up.Email, true /* lower */)

	if up.Username == nil && up.Role == nil && up.Nama == nil && up.Email == nil && up.Foto == nil {
		return core.NewCodedValidationError("NO_UPDATES", "No valid fields to update")
	}
	if up.Nama != nil && *up.Nama == "" {
		return core.NewCodedValidationError("INVALID_NAMA", "nama must be a non-empty string")
	}
	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.Username != nil && *up.Username != orig.Username {
		return svc.checkUniqueness(*up.Username, orig)
	}
	return nil
}

// ChangePassword carries an authenticated password change request.
type ChangePassword struct {
	ID              int    `json:"id" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (cp *ChangePassword) Validate(validate *validator.Validate) error {
	if cp.ID == 0 || cp.CurrentPassword == "" || cp.NewPassword == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS", "Missing required fields")
	}
	return validate.Struct(cp)
}

// GetFilter selects a single Pengguna by ID or natural key.
type GetFilter struct {
	ID       int
	Username string
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   string `query:"role"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}

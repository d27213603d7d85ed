// Package identity is the bounded context for user accounts: registration,
// login, batch import and the aggregated profile view. Wire names (JSON and
// column names) keep the original Spanish schema so existing clients and the
// existing database keep working.
package identity

import (
	"net/http"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

// Identity is one user account. PasswordHash never serializes outward.
type Identity struct {
	ID           kernel.IdentityID `db:"id" json:"id"`
	Nombre       string            `db:"nombre" json:"nombre"`
	Email        string            `db:"email" json:"email"`
	Telefono     string            `db:"telefono" json:"telefono"`
	PasswordHash string            `db:"password" json:"-"`
	RoleID       kernel.RoleID     `db:"rol_id" json:"rol_id"`
	RegisteredAt time.Time         `db:"fecha_registro" json:"fecha_registro"`
}

// NewIdentity is the write model for a registration: the password here is
// already a digest, never plaintext, by the time it reaches the repository.
type NewIdentity struct {
	Nombre       string        `db:"nombre"`
	Email        string        `db:"email"`
	Telefono     string        `db:"telefono"`
	PasswordHash string        `db:"password"`
	RoleID       kernel.RoleID `db:"rol_id"`
}

// Info is the authenticated self-view subset returned by /usuario-info.
type Info struct {
	ID       kernel.IdentityID `db:"id" json:"id"`
	Nombre   string            `db:"nombre" json:"nombre"`
	Email    string            `db:"email" json:"email"`
	Telefono string            `db:"telefono" json:"telefono"`
	RoleID   kernel.RoleID     `db:"rol_id" json:"rol_id"`
}

// Profile is the aggregated read view: the identity joined with its role,
// assigned assistive unit, last known location and emergency contact. The
// joined legs are pointers because each link is optional.
type Profile struct {
	ID            kernel.IdentityID `db:"id" json:"id"`
	Nombre        string            `db:"nombre" json:"nombre"`
	Email         string            `db:"email" json:"email"`
	Telefono      string            `db:"telefono" json:"telefono"`
	FechaRegistro time.Time         `db:"fecha_registro" json:"fecha_registro"`

	Rol *string `db:"rol" json:"rol"`

	Baston          *string    `db:"baston" json:"baston"`
	FechaAsignacion *time.Time `db:"fecha_asignacion" json:"fecha_asignacion"`

	Latitud   *float64 `db:"latitud" json:"latitud"`
	Longitud  *float64 `db:"longitud" json:"longitud"`
	Direccion *string  `db:"direccion" json:"direccion"`

	ContactoNombre   *string `db:"contacto_nombre" json:"contacto_nombre"`
	ContactoTelefono *string `db:"contacto_telefono" json:"contacto_telefono"`
	ContactoEmail    *string `db:"contacto_email" json:"contacto_email"`
}

// ============================================================================
// Request / Response DTOs
// ============================================================================

// RegisterRequest is a single registration, and also one candidate record of
// a batch import.
type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Password string `json:"password"`
	RolID    *int64 `json:"rol_id"`
}

// HasRequiredFields reports whether every mandatory field is present. It
// runs before any hashing so rejected requests never pay the bcrypt cost.
func (r RegisterRequest) HasRequiredFields() bool {
	return r.Nombre != "" && r.Email != "" && r.Telefono != "" && r.Password != ""
}

// Role resolves the requested role, defaulting to the standard user role.
func (r RegisterRequest) Role() kernel.RoleID {
	if r.RolID == nil || *r.RolID == 0 {
		return kernel.RoleStandardUser
	}
	return kernel.RoleID(*r.RolID)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// UpdateRequest mutates the contact/role fields of an identity. All three
// fields are mandatory, matching the dashboard edit form.
type UpdateRequest struct {
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	RolID    int64  `json:"rol_id"`
}

// ImportResult summarizes a batch import internally. The HTTP response stays
// a plain success message; skipped records surface only in logs.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IDENTITY")

var (
	CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	// Duplicate email answers with a generic message so registration never
	// confirms which part of the payload collided.
	CodeEmailTaken         = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "Registration failed")
	CodeMissingFields      = ErrRegistry.Register("MISSING_FIELDS", errx.TypeValidation, http.StatusBadRequest, "Missing required fields")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Incorrect password")
	CodeInvalidPayload     = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusBadRequest, "Malformed request body")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrEmailTaken() *errx.Error {
	return ErrRegistry.New(CodeEmailTaken)
}

func ErrMissingFields(detail string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeMissingFields, detail)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrInvalidPayload(detail string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidPayload, detail)
}

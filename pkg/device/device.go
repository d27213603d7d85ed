// Package device manages the assistive units ("bastones") assigned to
// identities. Mutations live here; the identity profile only reads the link.
package device

import (
	"net/http"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

// Device is one assistive unit assigned to an identity.
type Device struct {
	ID         int64             `db:"id" json:"id"`
	IdentityID kernel.IdentityID `db:"usuario_id" json:"usuario_id"`
	Modelo     string            `db:"modelo" json:"modelo"`
	AssignedAt time.Time         `db:"fecha_asignacion" json:"fecha_asignacion"`
}

// CreateRequest registers a unit for an existing identity.
type CreateRequest struct {
	IdentityID int64  `json:"usuario_id"`
	Modelo     string `json:"modelo"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("DEVICE")

var (
	CodeNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Device not found")
	CodeMissingFields = ErrRegistry.Register("MISSING_FIELDS", errx.TypeValidation, http.StatusBadRequest, "usuario_id and modelo are required")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrMissingFields() *errx.Error {
	return ErrRegistry.New(CodeMissingFields)
}

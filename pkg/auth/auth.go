// Package auth holds the credential primitives: password hashing, token
// issuance/verification and the request middleware that gates protected
// routes. Handlers never parse tokens themselves.
package auth

import (
	"net/http"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

// TokenClaims is the decoded content of a verified access token.
type TokenClaims struct {
	IdentityID kernel.IdentityID `json:"identity_id"`
	Email      string            `json:"email"`
	IssuedAt   time.Time         `json:"iat"`
	ExpiresAt  time.Time         `json:"exp"`
}

// TokenService issues and verifies stateless bearer tokens. Verification
// depends only on the token's own signature and expiry; there is no
// server-side session or revocation list.
type TokenService interface {
	IssueAccessToken(id kernel.IdentityID, email string) (string, error)
	VerifyAccessToken(token string) (*TokenClaims, error)
}

// PasswordHasher produces and checks salted one-way digests. The digest is
// self-contained (algorithm parameters and salt travel inside it).
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	// The three unauthorized cases deliberately share the same client-visible
	// message; only the internal code differs.
	CodeMissingToken          = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeInvalidToken          = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeExpiredToken          = ErrRegistry.Register("EXPIRED_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeHashingFailed         = ErrRegistry.Register("HASHING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Credential processing failed")
)

func ErrMissingToken() *errx.Error {
	return ErrRegistry.New(CodeMissingToken)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

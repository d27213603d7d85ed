package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService implements TokenService with HS256-signed JWTs. The signing key
// is process-wide, loaded once at startup and read-only afterwards.
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	now            func() time.Time
}

// NewJWTService creates the token service. A zero TTL defaults to one hour.
func NewJWTService(secretKey string, accessTokenTTL time.Duration, issuer string) *JWTService {
	if accessTokenTTL == 0 {
		accessTokenTTL = time.Hour
	}
	if issuer == "" {
		issuer = "apivini"
	}

	return &JWTService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		issuer:         issuer,
		now:            time.Now,
	}
}

// jwtClaims is the wire shape of the token payload.
type jwtClaims struct {
	IdentityID int64  `json:"id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// IssueAccessToken mints a signed token binding the identity id and email,
// expiring after the configured window.
func (j *JWTService) IssueAccessToken(id kernel.IdentityID, email string) (string, error) {
	now := j.now()

	claims := jwtClaims{
		IdentityID: id.Int64(),
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGenerationFailed, err)
	}
	return signed, nil
}

// VerifyAccessToken checks signature and expiry and decodes the claims.
// Expired and malformed tokens map to distinct internal codes, but both
// carry the same client-visible message.
func (j *JWTService) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired(), jwt.WithIssuedAt())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrRegistry.NewWithCause(CodeExpiredToken, err)
		}
		return nil, ErrRegistry.NewWithCause(CodeInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken()
	}

	// A token signed with the right key can still omit exp or iat, e.g.
	// minted by another issuer sharing the secret. A time-bounded token
	// needs both, so their absence is a verification failure.
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken()
	}

	return &TokenClaims{
		IdentityID: kernel.NewIdentityID(claims.IdentityID),
		Email:      claims.Email,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

var _ TokenService = (*JWTService)(nil)

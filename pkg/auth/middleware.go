package auth

import (
	"strings"

	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware is the single authorization choke-point. Protected routes
// run behind Authenticate; no handler parses tokens on its own.
type TokenMiddleware struct {
	tokenService TokenService
}

func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate extracts the bearer credential, verifies it and injects the
// resolved identity into the request context. Missing, malformed and expired
// tokens all short-circuit with 401 and the same generic message.
func (tm *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return unauthorized(c, ErrMissingToken())
		}

		claims, err := tm.tokenService.VerifyAccessToken(token)
		if err != nil {
			logx.WithFields(logx.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Debug("token rejected")
			return unauthorized(c, err)
		}

		c.Locals(kernel.AuthContextKey, &kernel.AuthContext{
			IdentityID: claims.IdentityID,
			Email:      claims.Email,
		})

		return c.Next()
	}
}

// AuthFromContext returns the AuthContext bound by Authenticate, or nil when
// the request never passed the middleware.
func AuthFromContext(c *fiber.Ctx) *kernel.AuthContext {
	ac, _ := c.Locals(kernel.AuthContextKey).(*kernel.AuthContext)
	return ac
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// unauthorized answers 401 without distinguishing missing, invalid or
// expired credentials to the caller.
func unauthorized(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

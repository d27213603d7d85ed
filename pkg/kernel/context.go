package kernel

// AuthContext is the per-request authentication context injected by the
// token middleware and consumed by protected handlers.
type AuthContext struct {
	IdentityID IdentityID `json:"identity_id"`
	Email      string     `json:"email"`
}

// IsValid reports whether the context identifies someone.
func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.IdentityID.IsZero()
}

// AuthContextKey is the request-local key the middleware stores the
// AuthContext under.
const AuthContextKey = "auth"

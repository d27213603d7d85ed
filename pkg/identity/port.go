package identity

import (
	"context"

	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

// Repository is the persistence contract for identities. Implementations
// report a duplicate email as ErrEmailTaken and an absent row as ErrNotFound.
type Repository interface {
	Create(ctx context.Context, rec NewIdentity) (kernel.IdentityID, error)
	FindByID(ctx context.Context, id kernel.IdentityID) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByName(ctx context.Context, nombre string) ([]Identity, error)
	FindAll(ctx context.Context) ([]Identity, error)
	Update(ctx context.Context, id kernel.IdentityID, req UpdateRequest) error
	Delete(ctx context.Context, id kernel.IdentityID) error

	// FindProfile joins role, assistive unit, location and emergency contact
	// in one query. First-row semantics when a link holds multiple rows.
	FindProfile(ctx context.Context, id kernel.IdentityID) (*Profile, error)
}

// ProfileCache is a best-effort read cache in front of FindProfile. Misses
// and backend outages both read through to the repository; errors are the
// implementation's to log, not the caller's to handle.
type ProfileCache interface {
	Get(ctx context.Context, id kernel.IdentityID) (*Profile, bool)
	Set(ctx context.Context, id kernel.IdentityID, p *Profile)
	Invalidate(ctx context.Context, id kernel.IdentityID)
}

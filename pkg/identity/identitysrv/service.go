package identitysrv

import (
	"context"

	"github.com/LuisIslasAcosta/apiVini/pkg/auth"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
	"github.com/LuisIslasAcosta/apiVini/pkg/notify"
)

// Service implements the identity operations. Cache and notifier are
// optional collaborators; a nil value disables the feature.
type Service struct {
	repo     identity.Repository
	hasher   auth.PasswordHasher
	tokens   auth.TokenService
	cache    identity.ProfileCache
	notifier notify.Notifier
}

func NewService(
	repo identity.Repository,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	cache identity.ProfileCache,
	notifier notify.Notifier,
) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		cache:    cache,
		notifier: notifier,
	}
}

// Register validates, hashes and persists one new identity, returning the
// store-assigned id. Validation runs before hashing so a rejected request
// never pays the bcrypt cost.
func (s *Service) Register(ctx context.Context, req identity.RegisterRequest) (kernel.IdentityID, error) {
	if !req.HasRequiredFields() {
		return 0, identity.ErrMissingFields("nombre, email, telefono and password are required")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, identity.NewIdentity{
		Nombre:       req.Nombre,
		Email:        req.Email,
		Telefono:     req.Telefono,
		PasswordHash: digest,
		RoleID:       req.Role(),
	})
	if err != nil {
		return 0, err
	}

	s.sendWelcome(ctx, req.Email, req.Nombre)

	return id, nil
}

// Login authenticates an email/password pair and issues an access token.
//
// An unknown email answers not-found while a wrong password answers
// unauthorized, preserving the original API contract. Collapsing both into
// a single unauthorized response would be the safer choice for a breaking
// release, since the distinction confirms which emails hold accounts.
func (s *Service) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, identity.ErrMissingFields("email and password are required")
	}

	ident, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(req.Password, ident.PasswordHash) {
		return nil, identity.ErrInvalidCredentials()
	}

	token, err := s.tokens.IssueAccessToken(ident.ID, ident.Email)
	if err != nil {
		return nil, err
	}

	return &identity.LoginResponse{
		Message: "Login successful",
		Token:   token,
	}, nil
}

// Import persists a batch of candidate identities with skip-and-continue
// semantics: records missing required fields are dropped with a warning and
// never abort the batch. The candidates are partitioned before any write, so
// validation and side effects stay separate. Accepted records are hashed and
// inserted one by one in input order; a store failure mid-batch aborts the
// remaining records and fails the whole call.
func (s *Service) Import(ctx context.Context, candidates []identity.RegisterRequest) (identity.ImportResult, error) {
	accepted := make([]identity.RegisterRequest, 0, len(candidates))
	skipped := 0

	for i, c := range candidates {
		if !c.HasRequiredFields() {
			skipped++
			logx.WithFields(logx.Fields{
				"index": i,
				"email": c.Email,
			}).Warn("import record skipped: missing required fields")
			continue
		}
		accepted = append(accepted, c)
	}

	result := identity.ImportResult{Skipped: skipped}

	for _, c := range accepted {
		digest, err := s.hasher.Hash(c.Password)
		if err != nil {
			return result, err
		}

		if _, err := s.repo.Create(ctx, identity.NewIdentity{
			Nombre:       c.Nombre,
			Email:        c.Email,
			Telefono:     c.Telefono,
			PasswordHash: digest,
			RoleID:       c.Role(),
		}); err != nil {
			return result, errx.Wrap(err, "import failed", errx.TypeInternal)
		}
		result.Imported++
	}

	if skipped > 0 {
		logx.WithFields(logx.Fields{
			"imported": result.Imported,
			"skipped":  skipped,
		}).Warn("import finished with skipped records")
	}

	return result, nil
}

// Info returns the authenticated self-view. A valid token does not guarantee
// the identity still exists, so the absent row maps to not-found here.
func (s *Service) Info(ctx context.Context, id kernel.IdentityID) (*identity.Info, error) {
	ident, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &identity.Info{
		ID:       ident.ID,
		Nombre:   ident.Nombre,
		Email:    ident.Email,
		Telefono: ident.Telefono,
		RoleID:   ident.RoleID,
	}, nil
}

// Profile returns the aggregated view, read through the cache when one is
// configured.
func (s *Service) Profile(ctx context.Context, id kernel.IdentityID) (*identity.Profile, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id); ok {
			return p, nil
		}
	}

	p, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, id, p)
	}
	return p, nil
}

// List returns every identity.
func (s *Service) List(ctx context.Context) ([]identity.Identity, error) {
	return s.repo.FindAll(ctx)
}

// Get returns one identity by id.
func (s *Service) Get(ctx context.Context, id kernel.IdentityID) (*identity.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByName returns the identities carrying a display name; not-found when
// none match.
func (s *Service) GetByName(ctx context.Context, nombre string) ([]identity.Identity, error) {
	idents, err := s.repo.FindByName(ctx, nombre)
	if err != nil {
		return nil, err
	}
	if len(idents) == 0 {
		return nil, identity.ErrNotFound()
	}
	return idents, nil
}

// Update mutates email, phone and role. All three fields are mandatory.
func (s *Service) Update(ctx context.Context, id kernel.IdentityID, req identity.UpdateRequest) error {
	if req.Email == "" || req.Telefono == "" || req.RolID == 0 {
		return identity.ErrMissingFields("email, telefono and rol_id are required")
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

// Delete removes an identity. Tokens already issued for it stay valid until
// expiry; readers of the stale identity get not-found.
func (s *Service) Delete(ctx context.Context, id kernel.IdentityID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

// sendWelcome is best-effort: delivery problems are logged and swallowed.
func (s *Service) sendWelcome(ctx context.Context, email, nombre string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendWelcome(ctx, email, nombre); err != nil {
		logx.WithError(err).WithField("email", email).Warn("welcome notification failed")
	}
}

package identityapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/auth"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identityapi"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identitysrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// memRepo is the in-memory store behind the handler tests. It counts reads
// so tests can assert a rejected request never produced side effects.
type memRepo struct {
	nextID int64
	byID   map[kernel.IdentityID]identity.Identity
	reads  int
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, byID: make(map[kernel.IdentityID]identity.Identity)}
}

func (r *memRepo) Create(_ context.Context, rec identity.NewIdentity) (kernel.IdentityID, error) {
	for _, existing := range r.byID {
		if existing.Email == rec.Email {
			return 0, identity.ErrEmailTaken()
		}
	}
	id := kernel.NewIdentityID(r.nextID)
	r.nextID++
	r.byID[id] = identity.Identity{
		ID: id, Nombre: rec.Nombre, Email: rec.Email, Telefono: rec.Telefono,
		PasswordHash: rec.PasswordHash, RoleID: rec.RoleID, RegisteredAt: time.Now(),
	}
	return id, nil
}

func (r *memRepo) FindByID(_ context.Context, id kernel.IdentityID) (*identity.Identity, error) {
	r.reads++
	ident, ok := r.byID[id]
	if !ok {
		return nil, identity.ErrNotFound()
	}
	return &ident, nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	for _, ident := range r.byID {
		if ident.Email == email {
			out := ident
			return &out, nil
		}
	}
	return nil, identity.ErrNotFound()
}

func (r *memRepo) FindByName(_ context.Context, nombre string) ([]identity.Identity, error) {
	var out []identity.Identity
	for _, ident := range r.byID {
		if ident.Nombre == nombre {
			out = append(out, ident)
		}
	}
	return out, nil
}

func (r *memRepo) FindAll(_ context.Context) ([]identity.Identity, error) {
	out := make([]identity.Identity, 0, len(r.byID))
	for _, ident := range r.byID {
		out = append(out, ident)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id kernel.IdentityID, req identity.UpdateRequest) error {
	ident, ok := r.byID[id]
	if !ok {
		return identity.ErrNotFound()
	}
	ident.Email = req.Email
	ident.Telefono = req.Telefono
	ident.RoleID = kernel.RoleID(req.RolID)
	r.byID[id] = ident
	return nil
}

func (r *memRepo) Delete(_ context.Context, id kernel.IdentityID) error {
	if _, ok := r.byID[id]; !ok {
		return identity.ErrNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *memRepo) FindProfile(_ context.Context, id kernel.IdentityID) (*identity.Profile, error) {
	r.reads++
	ident, ok := r.byID[id]
	if !ok {
		return nil, identity.ErrNotFound()
	}
	return &identity.Profile{
		ID: ident.ID, Nombre: ident.Nombre, Email: ident.Email,
		Telefono: ident.Telefono, FechaRegistro: ident.RegisteredAt,
	}, nil
}

type testEnv struct {
	app    *fiber.App
	repo   *memRepo
	tokens *auth.JWTService
}

func newTestEnv() *testEnv {
	repo := newMemRepo()
	tokens := auth.NewJWTService("test-secret", time.Hour, "test")
	svc := identitysrv.NewService(repo, auth.NewBcryptHasher(4), tokens, nil, nil)

	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
	identityapi.NewHandlers(svc).RegisterRoutes(app, auth.NewTokenMiddleware(tokens))

	return &testEnv{app: app, repo: repo, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func registration(email string) map[string]any {
	return map[string]any{
		"nombre":   "Ana",
		"email":    email,
		"telefono": "5551234",
		"password": "hunter22",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv()

	status, body := env.do(t, "POST", "/register", "", registration("ana@example.com"))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	if body["id"] == nil {
		t.Fatal("expected the new id in the response")
	}

	// Same email again: conflict, and still a single stored row.
	status, body = env.do(t, "POST", "/register", "", registration("ana@example.com"))
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}
	if len(env.repo.byID) != 1 {
		t.Fatalf("expected one stored record, got %d", len(env.repo.byID))
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Fatal("expected single error field in failure body")
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	status, _ := env.do(t, "POST", "/login", "", map[string]any{"email": "ana@example.com"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", status)
	}

	status, _ = env.do(t, "POST", "/login", "", map[string]any{"email": "ghost@example.com", "password": "x"})
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", status)
	}

	status, _ = env.do(t, "POST", "/login", "", map[string]any{"email": "ana@example.com", "password": "wrong"})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}

	status, body := env.do(t, "POST", "/login", "", map[string]any{"email": "ana@example.com", "password": "hunter22"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the login response")
	}
	claims, err := env.tokens.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("login token failed verification: %v", err)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("unexpected token email %q", claims.Email)
	}
}

func TestImportEndpoint_SkipAndContinue(t *testing.T) {
	env := newTestEnv()

	status, _ := env.do(t, "POST", "/importacion", "", map[string]any{
		"usuarios": []map[string]any{
			registration("a@example.com"),
			{"nombre": "Sin Password", "email": "b@example.com", "telefono": "555"},
			registration("c@example.com"),
		},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if len(env.repo.byID) != 2 {
		t.Fatalf("expected exactly 2 persisted records, got %d", len(env.repo.byID))
	}
}

func TestImportEndpoint_NonArrayPayload(t *testing.T) {
	env := newTestEnv()

	for _, payload := range []map[string]any{
		{},
		{"usuarios": map[string]any{"nombre": "x"}},
		{"usuarios": "not-an-array"},
	} {
		status, _ := env.do(t, "POST", "/importacion", "", payload)
		if status != fiber.StatusBadRequest {
			t.Fatalf("expected 400 for payload %v, got %d", payload, status)
		}
	}
	if len(env.repo.byID) != 0 {
		t.Fatal("invalid payloads must not persist anything")
	}
}

func TestInfoEndpoint_RequiresToken(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	status, _ := env.do(t, "GET", "/usuario-info", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if env.repo.reads != 0 {
		t.Fatal("rejected request must not reach the store")
	}
}

func TestInfoEndpoint_Authenticated(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	token, err := env.tokens.IssueAccessToken(kernel.NewIdentityID(1), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	status, body := env.do(t, "GET", "/usuario-info", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["email"] != "ana@example.com" {
		t.Fatalf("unexpected info body: %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatal("info response leaks the password digest")
	}
}

func TestInfoEndpoint_IdentityGone(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	token, err := env.tokens.IssueAccessToken(kernel.NewIdentityID(1), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	// Valid token, but the identity vanished after issuance.
	env.do(t, "DELETE", "/usuarios/1", "", nil)

	status, _ := env.do(t, "GET", "/usuario-info", token, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for vanished identity, got %d", status)
	}
}

func TestProfileEndpoint_NullJoinedFields(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	token, err := env.tokens.IssueAccessToken(kernel.NewIdentityID(1), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	status, body := env.do(t, "GET", "/usuarios/perfil", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["nombre"] != "Ana" {
		t.Fatalf("unexpected profile body: %v", body)
	}
	if body["baston"] != nil || body["latitud"] != nil {
		t.Fatal("expected joined fields to be null without linked rows")
	}
}

func TestUpdateEndpoint(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	update := map[string]any{"email": "new@example.com", "telefono": "5559999", "rol_id": 2}

	status, _ := env.do(t, "PUT", "/usuarios/1", "", update)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	token, err := env.tokens.IssueAccessToken(kernel.NewIdentityID(1), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	status, _ = env.do(t, "PUT", "/usuarios/1", token, map[string]any{"email": "new@example.com"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for partial update, got %d", status)
	}

	status, _ = env.do(t, "PUT", "/usuarios/1", token, update)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, _ = env.do(t, "PUT", "/usuarios/99", token, update)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", status)
	}
}

func TestGetAndDeleteEndpoints(t *testing.T) {
	env := newTestEnv()
	env.do(t, "POST", "/register", "", registration("ana@example.com"))

	status, body := env.do(t, "GET", "/usuarios/1", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatal("identity response leaks the password digest")
	}

	status, _ = env.do(t, "GET", "/usuarios/99", "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	status, _ = env.do(t, "GET", "/usuarios/nombre/Ana", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for name lookup, got %d", status)
	}

	status, _ = env.do(t, "GET", "/usuarios/nombre/Nadie", "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unmatched name, got %d", status)
	}

	status, _ = env.do(t, "DELETE", "/usuarios/1", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, _ = env.do(t, "DELETE", "/usuarios/1", "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}

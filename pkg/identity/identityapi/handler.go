package identityapi

import (
	"bytes"
	"encoding/json"

	"github.com/LuisIslasAcosta/apiVini/pkg/auth"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identitysrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the identity endpoints over HTTP. All token parsing
// happens in the auth middleware; handlers only read the injected context.
type Handlers struct {
	service *identitysrv.Service
}

func NewHandlers(service *identitysrv.Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes wires the identity routes. The path names keep the original
// API surface. /usuarios/perfil registers before /usuarios/:id so the
// literal segment wins.
func (h *Handlers) RegisterRoutes(app *fiber.App, mw *auth.TokenMiddleware) {
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/importacion", h.Import)

	app.Get("/usuario-info", mw.Authenticate(), h.Info)
	app.Get("/usuarios/perfil", mw.Authenticate(), h.Profile)

	app.Get("/usuarios", h.List)
	app.Get("/usuarios/nombre/:nombre", h.GetByName)
	app.Get("/usuarios/:id", h.Get)
	app.Put("/usuarios/:id", mw.Authenticate(), h.Update)
	app.Delete("/usuarios/:id", h.Delete)
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req identity.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return identity.ErrInvalidPayload("Malformed request body")
	}

	id, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"id":      id,
	})
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req identity.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return identity.ErrInvalidPayload("Malformed request body")
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Import accepts {"usuarios": [...]}. Only a structurally invalid top-level
// payload fails the call; individually defective records are skipped inside
// the service.
func (h *Handlers) Import(c *fiber.Ctx) error {
	var body struct {
		Usuarios json.RawMessage `json:"usuarios"`
	}
	if err := c.BodyParser(&body); err != nil {
		return identity.ErrInvalidPayload("Malformed request body")
	}

	trimmed := bytes.TrimSpace(body.Usuarios)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return identity.ErrInvalidPayload("usuarios must be an array")
	}

	var candidates []identity.RegisterRequest
	if err := json.Unmarshal(trimmed, &candidates); err != nil {
		return identity.ErrInvalidPayload("usuarios must be an array of users")
	}

	if _, err := h.service.Import(c.Context(), candidates); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Users imported successfully",
	})
}

func (h *Handlers) Info(c *fiber.Ctx) error {
	ac := auth.AuthFromContext(c)
	if !ac.IsValid() {
		return auth.ErrMissingToken()
	}

	info, err := h.service.Info(c.Context(), ac.IdentityID)
	if err != nil {
		return err
	}
	return c.JSON(info)
}

func (h *Handlers) Profile(c *fiber.Ctx) error {
	ac := auth.AuthFromContext(c)
	if !ac.IsValid() {
		return auth.ErrMissingToken()
	}

	profile, err := h.service.Profile(c.Context(), ac.IdentityID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *Handlers) List(c *fiber.Ctx) error {
	idents, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(idents)
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ident, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(ident)
}

func (h *Handlers) GetByName(c *fiber.Ctx) error {
	idents, err := h.service.GetByName(c.Context(), c.Params("nombre"))
	if err != nil {
		return err
	}
	return c.JSON(idents)
}

func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req identity.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return identity.ErrInvalidPayload("Malformed request body")
	}

	if err := h.service.Update(c.Context(), id, req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func parseID(c *fiber.Ctx) (kernel.IdentityID, error) {
	raw, err := c.ParamsInt("id")
	if err != nil || raw <= 0 {
		return 0, identity.ErrInvalidPayload("id must be a positive integer")
	}
	return kernel.NewIdentityID(int64(raw)), nil
}

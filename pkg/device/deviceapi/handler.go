package deviceapi

import (
	"github.com/LuisIslasAcosta/apiVini/pkg/auth"
	"github.com/LuisIslasAcosta/apiVini/pkg/device"
	"github.com/LuisIslasAcosta/apiVini/pkg/device/devicesrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the assistive-unit endpoints. The whole surface is
// token-gated.
type Handlers struct {
	service *devicesrv.Service
}

func NewHandlers(service *devicesrv.Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(app *fiber.App, mw *auth.TokenMiddleware) {
	app.Post("/bastones", mw.Authenticate(), h.Create)
	app.Get("/bastones/tod", mw.Authenticate(), h.List)
	app.Delete("/bastones/:id", mw.Authenticate(), h.Delete)
}

func (h *Handlers) Create(c *fiber.Ctx) error {
	var req device.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}

	id, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Device registered successfully",
		"id":      id,
	})
}

func (h *Handlers) List(c *fiber.Ctx) error {
	devices, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(devices)
}

func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errx.New("id must be a positive integer", errx.TypeValidation)
	}

	if err := h.service.Remove(c.Context(), int64(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Device deleted successfully"})
}

package errx

import (
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler renders any error as the API's single-field error
// body. Wrapped causes and details are logged, never sent to the client.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var e *Error
	if As(err, &e) {
		if e.HTTPStatus >= 500 {
			logx.WithFields(logx.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"code":   e.Code,
			}).Errorf("request failed: %v", err)
		}
		return c.Status(e.HTTPStatus).JSON(fiber.Map{"error": e.Message})
	}

	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	logx.WithFields(logx.Fields{
		"path":   c.Path(),
		"method": c.Method(),
	}).Errorf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

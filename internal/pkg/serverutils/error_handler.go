package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the
// uniform JSON envelope. Fiber errors keep their status code; anything
// else becomes a 500 with the detail logged, not leaked.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, nil))
		}

		log.Printf("[ERROR] unhandled: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error", nil))
	}
}

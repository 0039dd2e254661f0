package serverutils

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"

	"dream-journal-be/internal/pkg/apperror"
)

// InternalTokenMiddleware guards service-to-service routes, such as the ones
// the Telegram bot gateway calls. The shared secret travels in X-Internal-Token.
func InternalTokenMiddleware(ctx *fiber.Ctx) error {
	expected := os.Getenv("INTERNAL_API_TOKEN")
	if expected == "" {
		return apperror.Unauthorized("internal api disabled")
	}

	got := ctx.Get("X-Internal-Token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		return apperror.Unauthorized("invalid internal token")
	}
	return ctx.Next()
}

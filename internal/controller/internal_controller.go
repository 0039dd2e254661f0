package controller

import (
	"github.com/gofiber/fiber/v2"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/pkg/serverutils"
	"dream-journal-be/internal/service"
)

// IInternalController exposes the service-to-service API used by the
// Telegram bot gateway.
type IInternalController interface {
	RegisterRoutes(r fiber.Router)
	TelegramAuth(ctx *fiber.Ctx) error
}

type internalController struct {
	authService service.IAuthService
}

func NewInternalController(authService service.IAuthService) IInternalController {
	return &internalController{authService: authService}
}

func (c *internalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/internal")
	h.Use(serverutils.InternalTokenMiddleware)
	h.Post("/auth/telegram", c.TelegramAuth)
}

func (c *internalController) TelegramAuth(ctx *fiber.Ctx) error {
	var req dto.TelegramAuthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.AuthenticateTelegram(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Telegram user authenticated", res))
}

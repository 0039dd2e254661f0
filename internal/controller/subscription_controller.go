package controller

import (
	"github.com/gofiber/fiber/v2"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/pkg/serverutils"
	"dream-journal-be/internal/service"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Plans(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	StartTrial(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	subscriptionService service.ISubscriptionService
	paymentService      service.IPaymentService
}

func NewSubscriptionController(subscriptionService service.ISubscriptionService, paymentService service.IPaymentService) ISubscriptionController {
	return &subscriptionController{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
	}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscriptions")
	h.Post("/webhook", c.Webhook)
	h.Get("/plans", c.Plans)

	protected := h.Use(serverutils.JwtMiddleware)
	protected.Get("/status", c.Status)
	protected.Post("/trial", c.StartTrial)
	protected.Post("/checkout", c.Checkout)
	protected.Post("/cancel", c.Cancel)
}

func (c *subscriptionController) Plans(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list plans", c.subscriptionService.ListPlans()))
}

func (c *subscriptionController) Status(ctx *fiber.Ctx) error {
	res, err := c.subscriptionService.GetStatus(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get subscription status", res))
}

func (c *subscriptionController) StartTrial(ctx *fiber.Ctx) error {
	res, err := c.subscriptionService.StartTrial(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trial started", res))
}

func (c *subscriptionController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.Checkout(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	if err := c.subscriptionService.Cancel(ctx.Context(), currentUserId(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription cancelled", nil))
}

// Webhook receives Midtrans payment notifications. It is unauthenticated;
// the payload signature is verified in the payment service.
func (c *subscriptionController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.paymentService.HandleNotification(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}

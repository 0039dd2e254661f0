package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/pkg/serverutils"
	"dream-journal-be/internal/service"
)

type IDreamController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
	Audio(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
	Context(ctx *fiber.Ctx) error
	Quota(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type dreamController struct {
	dreamService service.IDreamService
}

func NewDreamController(dreamService service.IDreamService) IDreamController {
	return &dreamController{dreamService: dreamService}
}

func (c *dreamController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dreams")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("/quota", c.Quota)
	h.Get("/export", c.Export)
	h.Post("/transcribe", c.Transcribe)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Get("/:id/audio", c.Audio)
	h.Get("/:id/similar", c.Similar)
	h.Get("/:id/context", c.Context)
}

func dreamIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("id", "invalid dream id")
	}
	return id, nil
}

func (c *dreamController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDreamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.dreamService.Create(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Dream recorded", res))
}

func (c *dreamController) Update(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDreamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.dreamService.Update(ctx.Context(), currentUserId(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dream updated", res))
}

func (c *dreamController) List(ctx *fiber.Ctx) error {
	var req dto.ListDreamsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.dreamService.List(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list dreams", res))
}

func (c *dreamController) Show(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.dreamService.Show(ctx.Context(), currentUserId(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show dream", res))
}

func (c *dreamController) Delete(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.dreamService.Delete(ctx.Context(), currentUserId(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete dream", nil))
}

func (c *dreamController) Transcribe(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return apperror.Validation("audio", "audio file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	language := ctx.FormValue("language")

	res, err := c.dreamService.Transcribe(ctx.Context(), currentUserId(ctx), file, fileHeader.Filename, language)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}

func (c *dreamController) Audio(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	audio, err := c.dreamService.Synthesize(ctx.Context(), currentUserId(ctx), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	return ctx.Send(audio)
}

func (c *dreamController) Similar(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "5"))

	res, err := c.dreamService.GetSimilar(ctx.Context(), currentUserId(ctx), id, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get similar dreams", res))
}

func (c *dreamController) Context(ctx *fiber.Ctx) error {
	id, err := dreamIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.dreamService.GetContext(ctx.Context(), currentUserId(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get dream context", res))
}

func (c *dreamController) Quota(ctx *fiber.Ctx) error {
	res, err := c.dreamService.GetQuotaStatus(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get quota status", res))
}

func (c *dreamController) Export(ctx *fiber.Ctx) error {
	res, err := c.dreamService.Export(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export dreams", res))
}

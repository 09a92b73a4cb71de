package controller

import (
	"context-engine-be/internal/apperror"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/pkg/serverutils"
	"context-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPersonController interface {
	RegisterRoutes(r fiber.Router)
	RecordMention(ctx *fiber.Ctx) error
	ListUnknown(ctx *fiber.Ctx) error
	CandidatesToAsk(ctx *fiber.Ctx) error
	MarkAsked(ctx *fiber.Ctx) error
	Identify(ctx *fiber.Ctx) error
	Dismiss(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type personController struct {
	personService service.IPersonService
}

func NewPersonController(personService service.IPersonService) IPersonController {
	return &personController{
		personService: personService,
	}
}

func (c *personController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/person/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("mention", c.RecordMention)
	h.Get("unknown", c.ListUnknown)
	h.Get("unknown/candidates", c.CandidatesToAsk)
	h.Post("unknown/:id/asked", c.MarkAsked)
	h.Post("unknown/:id/identify", c.Identify)
	h.Delete("unknown/:id", c.Dismiss)
	h.Get(":id", c.Show)
}

func (c *personController) RecordMention(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RecordMentionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.personService.RecordMention(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record mention", res))
}

func (c *personController) ListUnknown(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.personService.ListUnknown(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list unknown people", res))
}

func (c *personController) CandidatesToAsk(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit")
	res, err := c.personService.CandidatesToAsk(ctx.Context(), userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list ask candidates", res))
}

func (c *personController) MarkAsked(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid unknown person id")
	}

	if err := c.personService.MarkAsked(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark asked", nil))
}

func (c *personController) Identify(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid unknown person id")
	}

	var req dto.IdentifyPersonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	req.UnknownPersonId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.personService.Identify(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success identify person", res))
}

func (c *personController) Dismiss(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid unknown person id")
	}

	if err := c.personService.Dismiss(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success dismiss unknown person", nil))
}

func (c *personController) Create(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePersonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.personService.CreatePerson(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create person", res))
}

func (c *personController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid person id")
	}

	res, err := c.personService.GetPerson(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show person", res))
}

func (c *personController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.personService.ListPeople(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list people", res))
}

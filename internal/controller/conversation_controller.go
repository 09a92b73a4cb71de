package controller

import (
	"context-engine-be/internal/apperror"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/pkg/serverutils"
	"context-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	Append(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	WindowedContext(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get("context", c.WindowedContext)
	h.Post("", c.Start)
	h.Get(":id", c.Show)
	h.Post(":id/end", c.End)
	h.Post(":id/message", c.Append)
}

func (c *conversationController) Start(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.StartConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}

	res, err := c.conversationService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *conversationController) End(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid conversation id")
	}

	if err := c.conversationService.End(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end conversation", nil))
}

func (c *conversationController) Append(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid conversation id")
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	req.ConversationId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Append(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success append message", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid conversation id")
	}

	res, err := c.conversationService.GetById(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ListConversationsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.InvalidInput("invalid query parameters")
	}

	res, err := c.conversationService.ListRecent(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *conversationController) WindowedContext(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.WindowedContextRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.InvalidInput("invalid query parameters")
	}

	res, err := c.conversationService.WindowedContext(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build windowed context", res))
}

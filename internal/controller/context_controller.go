package controller

import (
	"context-engine-be/internal/apperror"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/pkg/serverutils"
	"context-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	Turn(ctx *fiber.Ctx) error
}

type contextController struct {
	contextService service.IContextService
}

func NewContextController(contextService service.IContextService) IContextController {
	return &contextController{
		contextService: contextService,
	}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/context/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("turn", c.Turn)
}

func (c *contextController) Turn(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.TurnContextRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.InvalidInput("invalid query parameters")
	}

	res, err := c.contextService.BuildTurnContext(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build turn context", res))
}

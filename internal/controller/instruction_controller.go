package controller

import (
	"context-engine-be/internal/apperror"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/pkg/serverutils"
	"context-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInstructionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Supersede(ctx *fiber.Ctx) error
	Deactivate(ctx *fiber.Ctx) error
	Block(ctx *fiber.Ctx) error
}

type instructionController struct {
	instructionService service.IInstructionService
}

func NewInstructionController(instructionService service.IInstructionService) IInstructionController {
	return &instructionController{
		instructionService: instructionService,
	}
}

func (c *instructionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/instruction/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get("block", c.Block)
	h.Post("", c.Create)
	h.Post(":id/supersede", c.Supersede)
	h.Delete(":id", c.Deactivate)
}

func (c *instructionController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ListInstructionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.InvalidInput("invalid query parameters")
	}

	res, err := c.instructionService.GetActive(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list instructions", res))
}

func (c *instructionController) Block(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	block, _, err := c.instructionService.RenderContextBlock(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success render instruction block", fiber.Map{
		"block": block,
	}))
}

func (c *instructionController) Create(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateInstructionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.instructionService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create instruction", res))
}

func (c *instructionController) Supersede(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	oldId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid instruction id")
	}

	var req dto.SupersedeInstructionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	req.OldId = oldId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.instructionService.Supersede(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success supersede instruction", res))
}

func (c *instructionController) Deactivate(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid instruction id")
	}

	if err := c.instructionService.Deactivate(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success deactivate instruction", nil))
}

// currentUserId reads the authenticated user from the JWT middleware.
func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

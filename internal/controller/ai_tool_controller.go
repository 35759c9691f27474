package controller

import (
	"context"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apierr"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAiToolController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	ListRecent(ctx *fiber.Ctx) error
	ClearRecent(ctx *fiber.Ctx) error
	GetPreference(ctx *fiber.Ctx) error
	GetPreferences(ctx *fiber.Ctx) error
}

type aiToolController struct {
	service service.IAiToolService
	timeout time.Duration
}

// NewAiToolController bounds every generation by timeout. Fiber does not
// cancel the request context when the client goes away, so the deadline is
// what stops a stuck provider call.
func NewAiToolController(service service.IAiToolService, timeout time.Duration) IAiToolController {
	return &aiToolController{service: service, timeout: timeout}
}

func (c *aiToolController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")

	// Anonymous runs are allowed but not recorded.
	h.Post("/tools/:tool/generate", serverutils.OptionalJwtMiddleware, c.Generate)

	h.Get("/tools/:tool/recents", serverutils.JwtMiddleware, c.ListRecent)
	h.Delete("/tools/:tool/recents", serverutils.JwtMiddleware, c.ClearRecent)
	h.Get("/tools/:tool/preference", serverutils.JwtMiddleware, c.GetPreference)
	h.Get("/preferences", serverutils.JwtMiddleware, c.GetPreferences)
}

func toolParam(ctx *fiber.Ctx) (entity.AiTool, error) {
	tool, err := entity.ParseAiTool(ctx.Params("tool"))
	if err != nil {
		return "", apierr.UnknownTool(err)
	}
	return tool, nil
}

func requireUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return uuid.Nil, apierr.Unauthorized(nil)
	}
	return userId, nil
}

func (c *aiToolController) Generate(ctx *fiber.Ctx) error {
	tool, err := toolParam(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apierr.Validation(err)
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var userId *uuid.UUID
	if id, ok := serverutils.UserID(ctx); ok {
		userId = &id
	}

	reqCtx := ctx.UserContext()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, c.timeout)
		defer cancel()
	}

	res, err := c.service.Generate(reqCtx, userId, tool, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate "+string(tool), res))
}

func (c *aiToolController) ListRecent(ctx *fiber.Ctx) error {
	tool, err := toolParam(ctx)
	if err != nil {
		return err
	}
	userId, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var req dto.ListRecentRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apierr.Validation(err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListRecent(ctx.UserContext(), userId, tool, req.Limit, req.Offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recents", res))
}

func (c *aiToolController) ClearRecent(ctx *fiber.Ctx) error {
	tool, err := toolParam(ctx)
	if err != nil {
		return err
	}
	userId, err := requireUser(ctx)
	if err != nil {
		return err
	}

	removed, err := c.service.ClearRecent(ctx.UserContext(), userId, tool)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear recents", dto.ClearRecentResponse{Removed: removed}))
}

func (c *aiToolController) GetPreference(ctx *fiber.Ctx) error {
	tool, err := toolParam(ctx)
	if err != nil {
		return err
	}
	userId, err := requireUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetPreference(ctx.UserContext(), userId, tool)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get preference", res))
}

func (c *aiToolController) GetPreferences(ctx *fiber.Ctx) error {
	userId, err := requireUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetPreferences(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get preferences", res))
}

package controller

import (
	"errors"

	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/serverutils"
	"nia-sales-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Initiate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	ListTurns(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Initiate)
	h.Get(":id", c.Show)
	h.Post(":id/end", c.End)
	h.Get(":id/turns", c.ListTurns)
}

func (c *sessionController) Initiate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.InitiateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Initiate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success initiate session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid session id")
	}

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return serverutils.NewNotFoundError("session not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid session id")
	}

	// Ownership first; end itself is idempotent, so an already ended
	// session is fine here.
	if _, err := c.service.Authorize(ctx.Context(), userId, id); err != nil && !errors.Is(err, service.ErrSessionEnded) {
		if errors.Is(err, service.ErrSessionNotFound) {
			return serverutils.NewNotFoundError("session not found")
		}
		return err
	}

	res, err := c.service.End(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return serverutils.NewNotFoundError("session not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end session", res))
}

func (c *sessionController) ListTurns(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid session id")
	}

	res, err := c.service.ListTurns(ctx.Context(), userId, id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return serverutils.NewNotFoundError("session not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session turns", res))
}

package controller

import (
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/serverutils"
	"nia-sales-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVoiceConfigurationController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Upsert(ctx *fiber.Ctx) error
}

type voiceConfigurationController struct {
	service service.IVoiceConfigurationService
}

func NewVoiceConfigurationController(service service.IVoiceConfigurationService) IVoiceConfigurationController {
	return &voiceConfigurationController{service: service}
}

func (c *voiceConfigurationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice-config/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Show)
	h.Put("", c.Upsert)
}

func (c *voiceConfigurationController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Show(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get voice configuration", res))
}

func (c *voiceConfigurationController) Upsert(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpsertVoiceConfigurationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Upsert(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save voice configuration", res))
}

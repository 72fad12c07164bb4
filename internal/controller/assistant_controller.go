package controller

import (
	"ai-sitebuilder-be/internal/dto"
	"ai-sitebuilder-be/internal/pkg/serverutils"
	"ai-sitebuilder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chat", c.Chat)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process chat", res))
}

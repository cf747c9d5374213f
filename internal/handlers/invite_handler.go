package handlers

import (
	"errors"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/middleware"
	"github.com/findin/findin-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InviteHandler struct {
	inviteService *services.InviteService
	db            *gorm.DB
}

func NewInviteHandler(inviteService *services.InviteService, db *gorm.DB) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, db: db}
}

func (h *InviteHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.inviteService.Create(c.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *InviteHandler) Accept(c *fiber.Ctx) error {
	var req dto.AcceptInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.inviteService.Accept(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Invite not found",
			})
		case errors.Is(err, services.ErrInviteRedeemed),
			errors.Is(err, services.ErrInviteExpired),
			errors.Is(err, services.ErrInviteEmailMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Email already registered",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

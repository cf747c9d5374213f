package handlers

import (
	"errors"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/middleware"
	"github.com/findin/findin-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
	db             *gorm.DB
}

func NewCommentHandler(commentService *services.CommentService, db *gorm.DB) *CommentHandler {
	return &CommentHandler{commentService: commentService, db: db}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	commenter, err := middleware.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.commentService.CreateComment(c.Context(), commenter, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthorNotVerified):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only verified users can comment",
			})
		case errors.Is(err, services.ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Report not found",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"comment_id": comment.ID,
	})
}

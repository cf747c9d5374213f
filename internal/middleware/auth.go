package middleware

import (
	"errors"

	"github.com/findin/findin-backend/internal/config"
	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoUser = errors.New("no authenticated user in context")

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// UserID extracts the authenticated user's id from the verified JWT.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoUser
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}

// CurrentUser loads the authenticated user's row.
func CurrentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	id, err := UserID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrNoUser
	}
	return &user, nil
}

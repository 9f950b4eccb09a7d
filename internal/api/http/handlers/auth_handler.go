package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/api/dto"
	"github.com/spec-kit/demand-queue/internal/service"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// AuthHandler manages admin authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	token, expiresAt, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{AccessToken: token, ExpiresAt: expiresAt}})
}

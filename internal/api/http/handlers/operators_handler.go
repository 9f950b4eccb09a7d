package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/api/dto"
	"github.com/spec-kit/demand-queue/internal/auth"
	"github.com/spec-kit/demand-queue/internal/service"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// OperatorsHandler manages roster endpoints.
type OperatorsHandler struct {
	service *service.OperatorService
}

// NewOperatorsHandler constructs handler.
func NewOperatorsHandler(operatorService *service.OperatorService) *OperatorsHandler {
	return &OperatorsHandler{service: operatorService}
}

// List GET /operators.
func (h *OperatorsHandler) List(c *fiber.Ctx) error {
	operators, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.OperatorResponse, 0, len(operators))
	for i := range operators {
		items = append(items, dto.FromOperator(&operators[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /operators (admin).
func (h *OperatorsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	var req dto.OperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	operator, err := h.service.Create(c.UserContext(), principal.Admin, req.Nome)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromOperator(operator)})
}

// Rename PUT /operators/:id (admin).
func (h *OperatorsHandler) Rename(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	var req dto.OperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := h.service.Rename(c.UserContext(), principal.Admin, c.Params("id"), req.Nome); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete DELETE /operators/:id (admin).
func (h *OperatorsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	if err := h.service.Delete(c.UserContext(), principal.Admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

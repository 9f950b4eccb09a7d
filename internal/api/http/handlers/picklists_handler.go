package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/api/dto"
	"github.com/spec-kit/demand-queue/internal/auth"
	"github.com/spec-kit/demand-queue/internal/service"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// PicklistsHandler manages suggestion-set endpoints.
type PicklistsHandler struct {
	service *service.PicklistService
}

// NewPicklistsHandler constructs handler.
func NewPicklistsHandler(picklistService *service.PicklistService) *PicklistsHandler {
	return &PicklistsHandler{service: picklistService}
}

// List GET /picklists/:kind.
func (h *PicklistsHandler) List(c *fiber.Ctx) error {
	kind, err := service.ParseKind(c.Params("kind"))
	if err != nil {
		return err
	}
	entries, err := h.service.List(c.UserContext(), kind)
	if err != nil {
		return err
	}
	items := make([]dto.PicklistEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.FromPicklistEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Add POST /picklists/:kind (admin).
func (h *PicklistsHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	kind, err := service.ParseKind(c.Params("kind"))
	if err != nil {
		return err
	}
	var req dto.PicklistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	entry, err := h.service.Add(c.UserContext(), principal.Admin, kind, req.Value)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromPicklistEntry(entry)})
}

// Remove DELETE /picklists/:kind (admin).
func (h *PicklistsHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	kind, err := service.ParseKind(c.Params("kind"))
	if err != nil {
		return err
	}
	var req dto.PicklistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := h.service.Remove(c.UserContext(), principal.Admin, kind, req.Value); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

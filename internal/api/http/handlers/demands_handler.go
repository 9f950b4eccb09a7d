package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/api/dto"
	"github.com/spec-kit/demand-queue/internal/auth"
	"github.com/spec-kit/demand-queue/internal/livefeed"
	"github.com/spec-kit/demand-queue/internal/service"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// DemandsHandler manages demand lifecycle endpoints.
type DemandsHandler struct {
	service *service.DemandService
	hub     *livefeed.Hub
}

// NewDemandsHandler constructs handler.
func NewDemandsHandler(demandService *service.DemandService, hub *livefeed.Hub) *DemandsHandler {
	return &DemandsHandler{service: demandService, hub: hub}
}

// Create POST /demands.
func (h *DemandsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDemandRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	demand, err := h.service.Submit(c.UserContext(), req.Orgao, req.Servico, req.Fonte)
	if err != nil {
		return err
	}
	h.hub.NotifyChange(c.UserContext())
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromDemand(demand)})
}

// ListActive GET /demands.
func (h *DemandsHandler) ListActive(c *fiber.Ctx) error {
	demands, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDemands(demands)})
}

// Get GET /demands/:id.
func (h *DemandsHandler) Get(c *fiber.Ctx) error {
	demand, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDemand(demand)})
}

// Claim POST /demands/:id/claim.
func (h *DemandsHandler) Claim(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	demand, err := h.service.Claim(c.UserContext(), c.Params("id"), req.Operator)
	if err != nil {
		return err
	}
	h.hub.NotifyChange(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.FromDemand(demand)})
}

// Complete POST /demands/:id/complete.
func (h *DemandsHandler) Complete(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	demand, err := h.service.Complete(c.UserContext(), c.Params("id"), req.Operator)
	if err != nil {
		return err
	}
	h.hub.NotifyChange(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.FromDemand(demand)})
}

// Delete DELETE /demands/:id (admin only).
func (h *DemandsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	if err := h.service.AdminDelete(c.UserContext(), principal.Admin, c.Params("id")); err != nil {
		return err
	}
	h.hub.NotifyChange(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

// Stream GET /demands/stream delivers full active-queue snapshots over SSE.
func (h *DemandsHandler) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ch, cancel := h.hub.Subscribe()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case snapshot, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(snapshot)
				if err != nil {
					return
				}
				if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

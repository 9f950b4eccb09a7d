package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/export"
	"github.com/spec-kit/demand-queue/internal/service"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// ReportsHandler serves daily export downloads.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Daily GET /reports/daily?date=YYYY-MM-DD&operator=NAME&format=csv|text.
func (h *ReportsHandler) Daily(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return apperrors.NewInvalidInput("date must be YYYY-MM-DD", map[string]any{"date": raw})
		}
		day = parsed
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return err
	}

	report, err := h.service.Daily(c.UserContext(), day, c.Query("operator"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.service.Render(&buf, report, format); err != nil {
		return err
	}

	c.Set("Content-Type", format.ContentType())
	c.Set("Content-Disposition", `attachment; filename="`+export.Filename(report, format)+`"`)
	return c.Send(buf.Bytes())
}

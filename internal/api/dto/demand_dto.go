package dto

import (
	"time"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// CreateDemandRequest payload.
type CreateDemandRequest struct {
	Orgao   string `json:"orgao"`
	Servico string `json:"servico"`
	Fonte   string `json:"fonte"`
}

// TransitionRequest carries the acting operator for claim/complete.
type TransitionRequest struct {
	Operator string `json:"operator"`
}

// DemandResponse response.
type DemandResponse struct {
	ID          string              `json:"id"`
	Orgao       string              `json:"orgao"`
	Servico     string              `json:"servico"`
	Fonte       string              `json:"fonte,omitempty"`
	Status      domain.DemandStatus `json:"status"`
	Responsavel string              `json:"responsavel,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	FinishedAt  *string             `json:"finished_at,omitempty"`
}

// FromDemand maps the aggregate to its response shape. finished_at is
// rendered as an ISO-8601 string.
func FromDemand(d *domain.Demand) DemandResponse {
	resp := DemandResponse{
		ID:          d.ID,
		Orgao:       d.Orgao,
		Servico:     d.Servico,
		Fonte:       d.Fonte,
		Status:      d.Status,
		Responsavel: d.Responsavel,
		CreatedAt:   d.CreatedAt,
	}
	if d.FinishedAt != nil {
		finished := d.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &finished
	}
	return resp
}

// FromDemands maps a slice preserving order.
func FromDemands(demands []domain.Demand) []DemandResponse {
	items := make([]DemandResponse, 0, len(demands))
	for i := range demands {
		items = append(items, FromDemand(&demands[i]))
	}
	return items
}

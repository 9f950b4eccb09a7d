package dto

import (
	"time"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// OperatorRequest payload for create/rename.
type OperatorRequest struct {
	Nome string `json:"nome"`
}

// OperatorResponse response.
type OperatorResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FromOperator maps the aggregate.
func FromOperator(o *domain.Operator) OperatorResponse {
	return OperatorResponse{ID: o.ID, Nome: o.Nome, Active: o.Active, CreatedAt: o.CreatedAt}
}

// PicklistRequest payload for add/remove.
type PicklistRequest struct {
	Value string `json:"value"`
}

// PicklistEntryResponse response.
type PicklistEntryResponse struct {
	ID    string              `json:"id"`
	Kind  domain.PicklistKind `json:"kind"`
	Value string              `json:"value"`
}

// FromPicklistEntry maps the entry.
func FromPicklistEntry(e *domain.PicklistEntry) PicklistEntryResponse {
	return PicklistEntryResponse{ID: e.ID, Kind: e.Kind, Value: e.Value}
}

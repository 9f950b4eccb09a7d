package events

import (
	"time"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDemandCreated   EventType = "demand_created"
	EventDemandClaimed   EventType = "demand_claimed"
	EventDemandCompleted EventType = "demand_completed"
	EventDemandDeleted   EventType = "demand_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	Name    string             `json:"name,omitempty"`
	AdminID *string            `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	DemandID  string      `json:"demand_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DemandCreatedPayload payload.
type DemandCreatedPayload struct {
	Orgao   string `json:"orgao"`
	Servico string `json:"servico"`
	Fonte   string `json:"fonte,omitempty"`
}

// DemandClaimedPayload payload.
type DemandClaimedPayload struct {
	Responsavel string `json:"responsavel"`
}

// DemandCompletedPayload payload.
type DemandCompletedPayload struct {
	Responsavel string    `json:"responsavel"`
	FinishedAt  time.Time `json:"finished_at"`
}

// DemandDeletedPayload payload.
type DemandDeletedPayload struct {
	Status domain.DemandStatus `json:"status"`
}

package domain

import "time"

// DemandStatus enumerates lifecycle states for demands. The stored values
// keep the Portuguese strings used by the production data set.
type DemandStatus string

const (
	StatusReceived   DemandStatus = "RECEBIDO"
	StatusInProgress DemandStatus = "PRODUCAO"
	StatusDone       DemandStatus = "CONCLUIDO"
)

// Demand is the aggregate for a registered service request.
type Demand struct {
	ID          string
	Orgao       string
	Servico     string
	Fonte       string
	Status      DemandStatus
	Responsavel string
	CreatedAt   time.Time
	FinishedAt  *time.Time
}

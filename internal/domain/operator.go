package domain

import "time"

// Operator is a registered claimant identity selected from the roster.
type Operator struct {
	ID        string
	Nome      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

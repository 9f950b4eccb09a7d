package domain

import "time"

// SubjectType differentiates token subjects.
type SubjectType string

const (
	SubjectTypeAdmin    SubjectType = "ADMIN"
	SubjectTypeOperator SubjectType = "OPERATOR"
)

// AdminUser is an authenticated administrator allowed to bypass the demand
// state machine (hard deletes, roster and pick-list management).
type AdminUser struct {
	ID           string
	Username     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

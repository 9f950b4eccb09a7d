package domain

import "time"

// PicklistKind identifies which suggestion set an entry belongs to.
type PicklistKind string

const (
	PicklistServico PicklistKind = "SERVICO"
	PicklistFonte   PicklistKind = "FONTE"
)

// PicklistEntry is an administrator-managed suggestion value. Entries carry
// no policy weight; they only feed input completion.
type PicklistEntry struct {
	ID        string
	Kind      PicklistKind
	Value     string
	CreatedAt time.Time
}

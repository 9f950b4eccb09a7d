package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/demand-queue/internal/domain"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// PicklistService manages the suggestion sets for servico and fonte inputs.
type PicklistService struct {
	picklists repository.PicklistRepository
}

// NewPicklistService constructs the service.
func NewPicklistService(picklists repository.PicklistRepository) *PicklistService {
	return &PicklistService{picklists: picklists}
}

// List returns all suggestion values for a kind.
func (s *PicklistService) List(ctx context.Context, kind domain.PicklistKind) ([]domain.PicklistEntry, error) {
	entries, err := s.picklists.List(ctx, kind)
	if err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return entries, nil
}

// Add inserts an uppercase suggestion value; exact duplicates are absorbed.
func (s *PicklistService) Add(ctx context.Context, admin *domain.AdminUser, kind domain.PicklistKind, value string) (*domain.PicklistEntry, error) {
	if admin == nil {
		return nil, apperrors.NewAuthDenied("admin required")
	}
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return nil, apperrors.NewInvalidInput("value is required", nil)
	}
	entry := &domain.PicklistEntry{Kind: kind, Value: normalized}
	if err := s.picklists.Add(ctx, entry); err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return entry, nil
}

// Remove deletes a suggestion value.
func (s *PicklistService) Remove(ctx context.Context, admin *domain.AdminUser, kind domain.PicklistKind, value string) error {
	if admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if err := s.picklists.Remove(ctx, kind, normalized); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("picklist entry", map[string]any{"kind": kind, "value": normalized})
		}
		return apperrors.NewIOError(err)
	}
	return nil
}

// ParseKind maps a route segment to a picklist kind.
func ParseKind(raw string) (domain.PicklistKind, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(domain.PicklistServico):
		return domain.PicklistServico, nil
	case string(domain.PicklistFonte):
		return domain.PicklistFonte, nil
	default:
		return "", apperrors.NewInvalidInput("unknown picklist kind", map[string]any{"kind": raw})
	}
}

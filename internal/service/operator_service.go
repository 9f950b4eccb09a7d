package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/demand-queue/internal/domain"
	"github.com/spec-kit/demand-queue/internal/policy"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// OperatorService manages the claimant roster. Mutations are admin-only;
// listing is open so the submission screen can offer the roster.
type OperatorService struct {
	operators repository.OperatorRepository
}

// NewOperatorService constructs the service.
func NewOperatorService(operators repository.OperatorRepository) *OperatorService {
	return &OperatorService{operators: operators}
}

// List returns the roster ordered by name.
func (s *OperatorService) List(ctx context.Context) ([]domain.Operator, error) {
	operators, err := s.operators.List(ctx)
	if err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return operators, nil
}

// Create registers a new operator with a normalized display name.
func (s *OperatorService) Create(ctx context.Context, admin *domain.AdminUser, nome string) (*domain.Operator, error) {
	if admin == nil {
		return nil, apperrors.NewAuthDenied("admin required")
	}
	normalized := policy.NormalizeName(nome)
	if normalized == "" {
		return nil, apperrors.NewInvalidInput("operator name is required", nil)
	}
	operator := &domain.Operator{Nome: normalized, Active: true}
	if err := s.operators.Create(ctx, operator); err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return operator, nil
}

// Rename changes an operator's display name.
func (s *OperatorService) Rename(ctx context.Context, admin *domain.AdminUser, id, nome string) error {
	if admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	normalized := policy.NormalizeName(nome)
	if normalized == "" {
		return apperrors.NewInvalidInput("operator name is required", nil)
	}
	if err := s.operators.Rename(ctx, strings.TrimSpace(id), normalized); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("operator", map[string]any{"operator_id": id})
		}
		return apperrors.NewIOError(err)
	}
	return nil
}

// Delete removes an operator unconditionally.
func (s *OperatorService) Delete(ctx context.Context, admin *domain.AdminUser, id string) error {
	if admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	if err := s.operators.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("operator", map[string]any{"operator_id": id})
		}
		return apperrors.NewIOError(err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/demand-queue/internal/domain"
	"github.com/spec-kit/demand-queue/internal/events"
	"github.com/spec-kit/demand-queue/internal/policy"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// DemandService coordinates the demand lifecycle around the claim/status
// policy: normalize and insert, claim, complete, admin delete.
type DemandService struct {
	demands    repository.DemandRepository
	policy     policy.Config
	dispatcher events.Dispatcher
}

// DemandDependencies bundles collaborators for the demand service.
type DemandDependencies struct {
	DemandRepo repository.DemandRepository
	Policy     policy.Config
	Dispatcher events.Dispatcher
}

// NewDemandService constructs the service.
func NewDemandService(deps DemandDependencies) *DemandService {
	return &DemandService{
		demands:    deps.DemandRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
	}
}

// Submit normalizes raw form values and registers a new received demand.
func (s *DemandService) Submit(ctx context.Context, orgao, servico, fonte string) (*domain.Demand, error) {
	sub, err := policy.NormalizeSubmission(orgao, servico, fonte)
	if err != nil {
		return nil, err
	}

	demand := &domain.Demand{
		Orgao:       sub.Orgao,
		Servico:     sub.Servico,
		Fonte:       sub.Fonte,
		Status:      domain.StatusReceived,
		Responsavel: "",
	}
	if err := s.demands.Create(ctx, demand); err != nil {
		return nil, apperrors.NewIOError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventDemandCreated,
		DemandID: demand.ID,
		Actor:    events.Actor{Type: domain.SubjectTypeOperator},
		Payload: events.DemandCreatedPayload{
			Orgao:   demand.Orgao,
			Servico: demand.Servico,
			Fonte:   demand.Fonte,
		},
	})
	return demand, nil
}

// Claim moves a received demand into production under the acting operator's
// name. The store update is conditional on the demand still being received,
// so at most one concurrent claim wins.
func (s *DemandService) Claim(ctx context.Context, demandID, actingOperator string) (*domain.Demand, error) {
	demand, err := s.loadDemand(ctx, demandID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.policy.Claim(*demand, actingOperator)
	if err != nil {
		return nil, err
	}

	if err := s.demands.UpdateStatusIf(ctx, &claimed, domain.StatusReceived); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewIllegalTransition("demand was claimed by someone else",
				map[string]any{"demand_id": demandID})
		}
		return nil, apperrors.NewIOError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventDemandClaimed,
		DemandID: claimed.ID,
		Actor:    events.Actor{Type: domain.SubjectTypeOperator, Name: claimed.Responsavel},
		Payload:  events.DemandClaimedPayload{Responsavel: claimed.Responsavel},
	})
	return &claimed, nil
}

// Complete finishes an in-progress demand when the acting operator matches
// the recorded claimant.
func (s *DemandService) Complete(ctx context.Context, demandID, actingOperator string) (*domain.Demand, error) {
	demand, err := s.loadDemand(ctx, demandID)
	if err != nil {
		return nil, err
	}

	done, err := s.policy.Complete(*demand, actingOperator, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.demands.UpdateStatusIf(ctx, &done, domain.StatusInProgress); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewIllegalTransition("demand is no longer in production",
				map[string]any{"demand_id": demandID})
		}
		return nil, apperrors.NewIOError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventDemandCompleted,
		DemandID: done.ID,
		Actor:    events.Actor{Type: domain.SubjectTypeOperator, Name: policy.NormalizeName(actingOperator)},
		Payload: events.DemandCompletedPayload{
			Responsavel: done.Responsavel,
			FinishedAt:  *done.FinishedAt,
		},
	})
	return &done, nil
}

// ListActive returns the work queue, oldest first.
func (s *DemandService) ListActive(ctx context.Context) ([]domain.Demand, error) {
	demands, err := s.demands.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return demands, nil
}

// Get fetches a single demand.
func (s *DemandService) Get(ctx context.Context, demandID string) (*domain.Demand, error) {
	return s.loadDemand(ctx, demandID)
}

// AdminDelete removes a demand unconditionally, bypassing the state machine.
func (s *DemandService) AdminDelete(ctx context.Context, admin *domain.AdminUser, demandID string) error {
	if admin == nil {
		return apperrors.NewAuthDenied("admin required")
	}
	demand, err := s.loadDemand(ctx, demandID)
	if err != nil {
		return err
	}
	if err := s.demands.Delete(ctx, demandID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("demand", map[string]any{"demand_id": demandID})
		}
		return apperrors.NewIOError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventDemandDeleted,
		DemandID: demandID,
		Actor:    events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &admin.ID},
		Payload:  events.DemandDeletedPayload{Status: demand.Status},
	})
	return nil
}

func (s *DemandService) loadDemand(ctx context.Context, demandID string) (*domain.Demand, error) {
	demand, err := s.demands.GetByID(ctx, demandID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("demand", map[string]any{"demand_id": demandID})
		}
		return nil, apperrors.NewIOError(err)
	}
	return demand, nil
}

func (s *DemandService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

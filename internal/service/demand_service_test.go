package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-queue/internal/domain"
	"github.com/spec-kit/demand-queue/internal/events"
	"github.com/spec-kit/demand-queue/internal/policy"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// fakeDemandRepo is an in-memory DemandRepository with the same conditional
// update semantics the SQL implementation provides.
type fakeDemandRepo struct {
	mu      sync.Mutex
	nextID  int
	demands map[string]domain.Demand
}

func newFakeDemandRepo() *fakeDemandRepo {
	return &fakeDemandRepo{demands: make(map[string]domain.Demand)}
}

func (f *fakeDemandRepo) Create(ctx context.Context, demand *domain.Demand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	demand.ID = string(rune('a' + f.nextID - 1))
	demand.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.demands[demand.ID] = *demand
	return nil
}

func (f *fakeDemandRepo) GetByID(ctx context.Context, id string) (*domain.Demand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	demand, ok := f.demands[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &demand, nil
}

func (f *fakeDemandRepo) ListActive(ctx context.Context) ([]domain.Demand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Demand
	for _, demand := range f.demands {
		if demand.Status != domain.StatusDone {
			result = append(result, demand)
		}
	}
	return result, nil
}

func (f *fakeDemandRepo) ListDone(ctx context.Context, filter repository.DoneFilter) ([]domain.Demand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Demand
	for _, demand := range f.demands {
		if demand.Status != domain.StatusDone || demand.FinishedAt == nil {
			continue
		}
		y1, m1, d1 := demand.FinishedAt.Date()
		y2, m2, d2 := filter.Day.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		result = append(result, demand)
	}
	return result, nil
}

func (f *fakeDemandRepo) UpdateStatusIf(ctx context.Context, demand *domain.Demand, expected domain.DemandStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.demands[demand.ID]
	if !ok || current.Status != expected {
		return repository.ErrStatusConflict
	}
	current.Status = demand.Status
	current.Responsavel = demand.Responsavel
	current.FinishedAt = demand.FinishedAt
	f.demands[demand.ID] = current
	return nil
}

func (f *fakeDemandRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.demands[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.demands, id)
	return nil
}

func newTestService(repo repository.DemandRepository) *DemandService {
	return NewDemandService(DemandDependencies{
		DemandRepo: repo,
		Policy:     policy.Config{Strictness: policy.MatchSubstring},
		Dispatcher: events.NewInMemoryDispatcher(),
	})
}

func TestSubmitNormalizesAndStores(t *testing.T) {
	repo := newFakeDemandRepo()
	svc := newTestService(repo)

	demand, err := svc.Submit(context.Background(), "itajuipe", "contrato", "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, "PM ITAJUIPE", demand.Orgao)
	assert.Equal(t, "CONTRATO", demand.Servico)
	assert.Equal(t, "WHATSAPP", demand.Fonte)
	assert.Equal(t, domain.StatusReceived, demand.Status)
	assert.Empty(t, demand.Responsavel)
	assert.NotEmpty(t, demand.ID)
}

func TestSubmitRejectsEmptyFields(t *testing.T) {
	svc := newTestService(newFakeDemandRepo())

	_, err := svc.Submit(context.Background(), "", "contrato", "")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestClaimThenCompleteRoundTrip(t *testing.T) {
	repo := newFakeDemandRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, "itajuipe", "contrato", "")
	require.NoError(t, err)

	claimed, err := svc.Claim(ctx, created.ID, "Ana")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, claimed.Status)
	assert.Equal(t, "ANA", claimed.Responsavel)

	done, err := svc.Complete(ctx, created.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, done.Status)
	assert.Equal(t, "ANA", done.Responsavel)
	require.NotNil(t, done.FinishedAt)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, stored.Status)
}

func TestCompleteRejectsWrongOperator(t *testing.T) {
	repo := newFakeDemandRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, "ubata", "licitacao", "")
	require.NoError(t, err)
	_, err = svc.Claim(ctx, created.ID, "Joao Silva")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, created.ID, "Maria")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOwnershipMismatch))
	assert.Equal(t, "JOAO SILVA", apperrors.ToDomainError(err).Details["responsavel"])

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Nil(t, stored.FinishedAt)
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	repo := newFakeDemandRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, "itajuipe", "contrato", "")
	require.NoError(t, err)

	operators := []string{"ANA", "JOAO", "MARIA", "PEDRO"}
	var wg sync.WaitGroup
	results := make([]error, len(operators))
	for i, operator := range operators {
		wg.Add(1)
		go func(i int, operator string) {
			defer wg.Done()
			_, results[i] = svc.Claim(ctx, created.ID, operator)
		}(i, operator)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, apperrors.HasCode(err, apperrors.CodeIllegalTransition))
		}
	}
	assert.Equal(t, 1, wins)
}

func TestClaimOnMissingDemand(t *testing.T) {
	svc := newTestService(newFakeDemandRepo())

	_, err := svc.Claim(context.Background(), "missing", "ANA")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAdminDeleteBypassesStateMachine(t *testing.T) {
	repo := newFakeDemandRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, "itajuipe", "contrato", "")
	require.NoError(t, err)
	_, err = svc.Claim(ctx, created.ID, "ANA")
	require.NoError(t, err)

	admin := &domain.AdminUser{ID: "admin-1", Username: "chefe", Active: true}
	require.NoError(t, svc.AdminDelete(ctx, admin, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = svc.AdminDelete(ctx, nil, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthDenied))
}

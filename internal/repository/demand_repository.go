package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// ErrStatusConflict is returned when a conditional status update matched no
// row, meaning another client already moved the demand past the expected
// state. At most one concurrent claim can win.
var ErrStatusConflict = errors.New("demand status precondition failed")

// DoneFilter selects completed demands for reporting. Operator filtering
// happens in the report service so it can use the same matching rule as
// ownership checks.
type DoneFilter struct {
	Day time.Time
}

// DemandRepository encapsulates demand persistence.
type DemandRepository interface {
	Create(ctx context.Context, demand *domain.Demand) error
	GetByID(ctx context.Context, id string) (*domain.Demand, error)
	ListActive(ctx context.Context) ([]domain.Demand, error)
	ListDone(ctx context.Context, filter DoneFilter) ([]domain.Demand, error)
	// UpdateStatusIf merge-updates status, responsavel and finished_at only
	// while the stored status still equals expected.
	UpdateStatusIf(ctx context.Context, demand *domain.Demand, expected domain.DemandStatus) error
	Delete(ctx context.Context, id string) error
}

type demandRepository struct {
	pool *pgxpool.Pool
}

// NewDemandRepository instantiates repository.
func NewDemandRepository(pool *pgxpool.Pool) DemandRepository {
	return &demandRepository{pool: pool}
}

func (r *demandRepository) Create(ctx context.Context, demand *domain.Demand) error {
	const query = `
        INSERT INTO demands (orgao, servico, fonte, status, responsavel)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		demand.Orgao,
		demand.Servico,
		demand.Fonte,
		demand.Status,
		demand.Responsavel,
	).Scan(&demand.ID, &demand.CreatedAt)
}

func (r *demandRepository) GetByID(ctx context.Context, id string) (*domain.Demand, error) {
	const query = `
        SELECT id, orgao, servico, fonte, status, responsavel, created_at, finished_at
        FROM demands WHERE id=$1`
	var demand domain.Demand
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&demand.ID,
		&demand.Orgao,
		&demand.Servico,
		&demand.Fonte,
		&demand.Status,
		&demand.Responsavel,
		&demand.CreatedAt,
		&demand.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *demandRepository) ListActive(ctx context.Context) ([]domain.Demand, error) {
	const query = `
        SELECT id, orgao, servico, fonte, status, responsavel, created_at, finished_at
        FROM demands WHERE status <> $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, domain.StatusDone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDemands(rows)
}

func (r *demandRepository) ListDone(ctx context.Context, filter DoneFilter) ([]domain.Demand, error) {
	dayStart := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	const query = `
        SELECT id, orgao, servico, fonte, status, responsavel, created_at, finished_at
        FROM demands
        WHERE status = $1 AND finished_at >= $2 AND finished_at < $3
        ORDER BY finished_at ASC`

	rows, err := r.pool.Query(ctx, query, domain.StatusDone, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDemands(rows)
}

func (r *demandRepository) UpdateStatusIf(ctx context.Context, demand *domain.Demand, expected domain.DemandStatus) error {
	const query = `
        UPDATE demands SET status=$1, responsavel=$2, finished_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		demand.Status,
		demand.Responsavel,
		demand.FinishedAt,
		demand.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *demandRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM demands WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDemands(rows pgx.Rows) ([]domain.Demand, error) {
	var result []domain.Demand
	for rows.Next() {
		var demand domain.Demand
		if err := rows.Scan(
			&demand.ID,
			&demand.Orgao,
			&demand.Servico,
			&demand.Fonte,
			&demand.Status,
			&demand.Responsavel,
			&demand.CreatedAt,
			&demand.FinishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, demand)
	}
	return result, rows.Err()
}

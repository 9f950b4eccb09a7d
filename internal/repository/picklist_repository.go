package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// PicklistRepository manages suggestion values per kind.
type PicklistRepository interface {
	Add(ctx context.Context, entry *domain.PicklistEntry) error
	List(ctx context.Context, kind domain.PicklistKind) ([]domain.PicklistEntry, error)
	Remove(ctx context.Context, kind domain.PicklistKind, value string) error
}

type picklistRepository struct {
	pool *pgxpool.Pool
}

// NewPicklistRepository instantiates repository.
func NewPicklistRepository(pool *pgxpool.Pool) PicklistRepository {
	return &picklistRepository{pool: pool}
}

func (r *picklistRepository) Add(ctx context.Context, entry *domain.PicklistEntry) error {
	// ON CONFLICT keeps exact duplicates out without failing the request.
	const query = `
        INSERT INTO picklist_entries (kind, value)
        VALUES ($1,$2)
        ON CONFLICT (kind, value) DO UPDATE SET value = EXCLUDED.value
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, entry.Kind, entry.Value).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *picklistRepository) List(ctx context.Context, kind domain.PicklistKind) ([]domain.PicklistEntry, error) {
	const query = `
        SELECT id, kind, value, created_at
        FROM picklist_entries WHERE kind=$1 ORDER BY value ASC`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PicklistEntry
	for rows.Next() {
		var entry domain.PicklistEntry
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Value, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *picklistRepository) Remove(ctx context.Context, kind domain.PicklistKind, value string) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM picklist_entries WHERE kind=$1 AND value=$2`, kind, value)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

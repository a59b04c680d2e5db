package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// ParcelHistoryRepository stores status audit entries.
type ParcelHistoryRepository interface {
	Create(ctx context.Context, change *domain.ParcelStatusChange) error
	ListByParcel(ctx context.Context, parcelID int64) ([]domain.ParcelStatusChange, error)
}

type parcelHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewParcelHistoryRepository builds repository.
func NewParcelHistoryRepository(pool *pgxpool.Pool) ParcelHistoryRepository {
	return &parcelHistoryRepository{pool: pool}
}

func (r *parcelHistoryRepository) Create(ctx context.Context, change *domain.ParcelStatusChange) error {
	const query = `
        INSERT INTO parcel_status_history (parcel_id, old_status, new_status, location, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		change.ParcelID,
		change.OldStatus,
		change.NewStatus,
		change.Location,
		change.Notes,
		change.CreatedAt,
	).Scan(&change.ID)
	return translateError(err)
}

func (r *parcelHistoryRepository) ListByParcel(ctx context.Context, parcelID int64) ([]domain.ParcelStatusChange, error) {
	const query = `
        SELECT id, parcel_id, old_status, new_status, location, notes, created_at
        FROM parcel_status_history WHERE parcel_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, parcelID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var result []domain.ParcelStatusChange
	for rows.Next() {
		var change domain.ParcelStatusChange
		if err := rows.Scan(
			&change.ID,
			&change.ParcelID,
			&change.OldStatus,
			&change.NewStatus,
			&change.Location,
			&change.Notes,
			&change.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}

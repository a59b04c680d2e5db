package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// RatingRepository persists parcel ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.ParcelRating) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, userEmail, trackingID string) (bool, error)
	ListByTrackingID(ctx context.Context, trackingID string) ([]domain.ParcelRating, error)
	ListByUser(ctx context.Context, userEmail string) ([]domain.ParcelRating, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ParcelRating, error)
	CountByScore(ctx context.Context) (map[int]int64, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a Postgres-backed implementation.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

const ratingColumns = `id, user_email, tracking_id, rating, remarks, created_at`

// Create inserts the rating. A second rating for the same user and parcel yields ErrDuplicate.
func (r *ratingRepository) Create(ctx context.Context, rating *domain.ParcelRating) error {
	const query = `
        INSERT INTO parcel_ratings (user_email, tracking_id, rating, remarks, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		rating.UserEmail,
		rating.TrackingID,
		rating.Rating,
		rating.Remarks,
		rating.CreatedAt,
	).Scan(&rating.ID)
	return translateError(err)
}

func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM parcel_ratings WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ratingRepository) Exists(ctx context.Context, userEmail, trackingID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM parcel_ratings WHERE user_email=$1 AND tracking_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userEmail, trackingID).Scan(&exists); err != nil {
		return false, translateError(err)
	}
	return exists, nil
}

func (r *ratingRepository) ListByTrackingID(ctx context.Context, trackingID string) ([]domain.ParcelRating, error) {
	return r.fetchMany(ctx, `SELECT `+ratingColumns+` FROM parcel_ratings WHERE tracking_id=$1
        ORDER BY created_at DESC, id DESC`, trackingID)
}

func (r *ratingRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.ParcelRating, error) {
	return r.fetchMany(ctx, `SELECT `+ratingColumns+` FROM parcel_ratings WHERE user_email=$1
        ORDER BY created_at DESC, id DESC`, userEmail)
}

func (r *ratingRepository) ListRecent(ctx context.Context, limit int) ([]domain.ParcelRating, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.fetchMany(ctx, `SELECT `+ratingColumns+` FROM parcel_ratings
        ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *ratingRepository) CountByScore(ctx context.Context) (map[int]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT rating, COUNT(*) FROM parcel_ratings GROUP BY rating`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var score int
		var count int64
		if err := rows.Scan(&score, &count); err != nil {
			return nil, err
		}
		counts[score] = count
	}
	return counts, rows.Err()
}

func (r *ratingRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.ParcelRating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanRatings(rows)
}

func scanRatings(rows pgx.Rows) ([]domain.ParcelRating, error) {
	var result []domain.ParcelRating
	for rows.Next() {
		var rating domain.ParcelRating
		if err := rows.Scan(
			&rating.ID,
			&rating.UserEmail,
			&rating.TrackingID,
			&rating.Rating,
			&rating.Remarks,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}

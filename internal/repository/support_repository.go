package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// SupportRepository persists support tickets.
type SupportRepository interface {
	Create(ctx context.Context, request *domain.SupportRequest) error
	Update(ctx context.Context, request *domain.SupportRequest) error
	GetByID(ctx context.Context, id int64) (*domain.SupportRequest, error)
	List(ctx context.Context) ([]domain.SupportRequest, error)
	ListByEmail(ctx context.Context, email string) ([]domain.SupportRequest, error)
}

type supportRepository struct {
	pool *pgxpool.Pool
}

// NewSupportRepository returns a Postgres-backed implementation.
func NewSupportRepository(pool *pgxpool.Pool) SupportRepository {
	return &supportRepository{pool: pool}
}

const supportColumns = `id, name, email, phone, subject, message, issue_type, priority, tracking_id,
        status, admin_response, created_at, resolved_at`

func (r *supportRepository) Create(ctx context.Context, request *domain.SupportRequest) error {
	const query = `
        INSERT INTO support_requests (name, email, phone, subject, message, issue_type, priority, tracking_id,
            status, admin_response, created_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		request.Name,
		request.Email,
		request.Phone,
		request.Subject,
		request.Message,
		request.IssueType,
		request.Priority,
		request.TrackingID,
		request.Status,
		request.AdminResponse,
		request.CreatedAt,
		request.ResolvedAt,
	).Scan(&request.ID)
	return translateError(err)
}

// Update writes the admin-managed columns.
func (r *supportRepository) Update(ctx context.Context, request *domain.SupportRequest) error {
	const query = `
        UPDATE support_requests SET status=$1, admin_response=$2, resolved_at=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		request.Status,
		request.AdminResponse,
		request.ResolvedAt,
		request.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *supportRepository) GetByID(ctx context.Context, id int64) (*domain.SupportRequest, error) {
	request, err := scanSupportRequest(r.pool.QueryRow(ctx, `SELECT `+supportColumns+` FROM support_requests WHERE id=$1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return request, nil
}

func (r *supportRepository) List(ctx context.Context) ([]domain.SupportRequest, error) {
	return r.fetchMany(ctx, `SELECT `+supportColumns+` FROM support_requests ORDER BY created_at DESC, id DESC`)
}

func (r *supportRepository) ListByEmail(ctx context.Context, email string) ([]domain.SupportRequest, error) {
	return r.fetchMany(ctx, `SELECT `+supportColumns+` FROM support_requests WHERE email=$1
        ORDER BY created_at DESC, id DESC`, email)
}

func (r *supportRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.SupportRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var result []domain.SupportRequest
	for rows.Next() {
		request, err := scanSupportRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *request)
	}
	return result, rows.Err()
}

func scanSupportRequest(row rowScanner) (*domain.SupportRequest, error) {
	var request domain.SupportRequest
	if err := row.Scan(
		&request.ID,
		&request.Name,
		&request.Email,
		&request.Phone,
		&request.Subject,
		&request.Message,
		&request.IssueType,
		&request.Priority,
		&request.TrackingID,
		&request.Status,
		&request.AdminResponse,
		&request.CreatedAt,
		&request.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

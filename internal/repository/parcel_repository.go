package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// ParcelRepository encapsulates parcel persistence.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *domain.Parcel) error
	Update(ctx context.Context, parcel *domain.Parcel) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Parcel, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Parcel, error)
	List(ctx context.Context) ([]domain.Parcel, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Parcel, error)
	ListByStatus(ctx context.Context, status domain.ParcelStatus) ([]domain.Parcel, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Parcel, error)
	Search(ctx context.Context, term string) ([]domain.Parcel, error)
	CountByStatus(ctx context.Context) (map[domain.ParcelStatus]int64, error)
}

type parcelRepository struct {
	pool *pgxpool.Pool
}

// NewParcelRepository instantiates repository.
func NewParcelRepository(pool *pgxpool.Pool) ParcelRepository {
	return &parcelRepository{pool: pool}
}

const parcelColumns = `id, tracking_id,
        sender_name, sender_email, sender_phone, sender_address,
        recipient_name, recipient_email, recipient_phone, recipient_address,
        description, weight, dimensions, category, value,
        status, current_location, notes, priority, service_type, package_size,
        estimated_delivery_date, delivery_attempts, is_fragile, requires_signature, delivery_instructions,
        created_at, updated_at, delivered_at`

func (r *parcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	const query = `
        INSERT INTO parcels (tracking_id,
            sender_name, sender_email, sender_phone, sender_address,
            recipient_name, recipient_email, recipient_phone, recipient_address,
            description, weight, dimensions, category, value,
            status, current_location, notes, priority, service_type, package_size,
            estimated_delivery_date, delivery_attempts, is_fragile, requires_signature, delivery_instructions,
            created_at, updated_at, delivered_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		parcel.TrackingID,
		parcel.Sender.Name,
		parcel.Sender.Email,
		parcel.Sender.Phone,
		parcel.Sender.Address,
		parcel.Recipient.Name,
		parcel.Recipient.Email,
		parcel.Recipient.Phone,
		parcel.Recipient.Address,
		parcel.Description,
		parcel.Weight,
		parcel.Dimensions,
		parcel.Category,
		parcel.Value,
		parcel.Status,
		parcel.CurrentLocation,
		parcel.Notes,
		parcel.Priority,
		parcel.ServiceType,
		parcel.PackageSize,
		parcel.EstimatedDeliveryDate,
		parcel.DeliveryAttempts,
		parcel.IsFragile,
		parcel.RequiresSignature,
		parcel.DeliveryInstructions,
		parcel.CreatedAt,
		parcel.UpdatedAt,
		parcel.DeliveredAt,
	).Scan(&parcel.ID)
	return translateError(err)
}

// Update overwrites every mutable column. The tracking ID and creation time are never rewritten.
func (r *parcelRepository) Update(ctx context.Context, parcel *domain.Parcel) error {
	const query = `
        UPDATE parcels SET
            sender_name=$1, sender_email=$2, sender_phone=$3, sender_address=$4,
            recipient_name=$5, recipient_email=$6, recipient_phone=$7, recipient_address=$8,
            description=$9, weight=$10, dimensions=$11, category=$12, value=$13,
            status=$14, current_location=$15, notes=$16, priority=$17, service_type=$18, package_size=$19,
            estimated_delivery_date=$20, delivery_attempts=$21, is_fragile=$22, requires_signature=$23,
            delivery_instructions=$24, updated_at=$25, delivered_at=$26
        WHERE id=$27`
	cmd, err := r.pool.Exec(ctx, query,
		parcel.Sender.Name,
		parcel.Sender.Email,
		parcel.Sender.Phone,
		parcel.Sender.Address,
		parcel.Recipient.Name,
		parcel.Recipient.Email,
		parcel.Recipient.Phone,
		parcel.Recipient.Address,
		parcel.Description,
		parcel.Weight,
		parcel.Dimensions,
		parcel.Category,
		parcel.Value,
		parcel.Status,
		parcel.CurrentLocation,
		parcel.Notes,
		parcel.Priority,
		parcel.ServiceType,
		parcel.PackageSize,
		parcel.EstimatedDeliveryDate,
		parcel.DeliveryAttempts,
		parcel.IsFragile,
		parcel.RequiresSignature,
		parcel.DeliveryInstructions,
		parcel.UpdatedAt,
		parcel.DeliveredAt,
		parcel.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *parcelRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM parcels WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *parcelRepository) GetByID(ctx context.Context, id int64) (*domain.Parcel, error) {
	return r.fetchSingle(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE id=$1`, id)
}

func (r *parcelRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Parcel, error) {
	return r.fetchSingle(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE tracking_id=$1`, trackingID)
}

func (r *parcelRepository) List(ctx context.Context) ([]domain.Parcel, error) {
	return r.fetchMany(ctx, `SELECT `+parcelColumns+` FROM parcels ORDER BY created_at DESC, id DESC`)
}

func (r *parcelRepository) ListByEmail(ctx context.Context, email string) ([]domain.Parcel, error) {
	return r.fetchMany(ctx, `SELECT `+parcelColumns+` FROM parcels
        WHERE sender_email=$1 OR recipient_email=$1
        ORDER BY created_at DESC, id DESC`, email)
}

func (r *parcelRepository) ListByStatus(ctx context.Context, status domain.ParcelStatus) ([]domain.Parcel, error) {
	return r.fetchMany(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE status=$1
        ORDER BY created_at DESC, id DESC`, status)
}

func (r *parcelRepository) ListRecent(ctx context.Context, limit int) ([]domain.Parcel, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.fetchMany(ctx, `SELECT `+parcelColumns+` FROM parcels
        ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *parcelRepository) Search(ctx context.Context, term string) ([]domain.Parcel, error) {
	search := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return r.fetchMany(ctx, `SELECT `+parcelColumns+` FROM parcels
        WHERE LOWER(tracking_id) LIKE $1
           OR LOWER(sender_name) LIKE $1 OR LOWER(sender_email) LIKE $1
           OR LOWER(recipient_name) LIKE $1 OR LOWER(recipient_email) LIKE $1
           OR LOWER(description) LIKE $1 OR LOWER(current_location) LIKE $1
        ORDER BY created_at DESC, id DESC`, search)
}

func (r *parcelRepository) CountByStatus(ctx context.Context) (map[domain.ParcelStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM parcels GROUP BY status`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[domain.ParcelStatus]int64)
	for rows.Next() {
		var (
			status domain.ParcelStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *parcelRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Parcel, error) {
	parcel, err := scanParcel(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translateError(err)
	}
	return parcel, nil
}

func (r *parcelRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Parcel, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()
	return scanParcels(rows)
}

func scanParcels(rows pgx.Rows) ([]domain.Parcel, error) {
	var result []domain.Parcel
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *parcel)
	}
	return result, rows.Err()
}

func scanParcel(row rowScanner) (*domain.Parcel, error) {
	var parcel domain.Parcel
	if err := row.Scan(
		&parcel.ID,
		&parcel.TrackingID,
		&parcel.Sender.Name,
		&parcel.Sender.Email,
		&parcel.Sender.Phone,
		&parcel.Sender.Address,
		&parcel.Recipient.Name,
		&parcel.Recipient.Email,
		&parcel.Recipient.Phone,
		&parcel.Recipient.Address,
		&parcel.Description,
		&parcel.Weight,
		&parcel.Dimensions,
		&parcel.Category,
		&parcel.Value,
		&parcel.Status,
		&parcel.CurrentLocation,
		&parcel.Notes,
		&parcel.Priority,
		&parcel.ServiceType,
		&parcel.PackageSize,
		&parcel.EstimatedDeliveryDate,
		&parcel.DeliveryAttempts,
		&parcel.IsFragile,
		&parcel.RequiresSignature,
		&parcel.DeliveryInstructions,
		&parcel.CreatedAt,
		&parcel.UpdatedAt,
		&parcel.DeliveredAt,
	); err != nil {
		return nil, err
	}
	return &parcel, nil
}

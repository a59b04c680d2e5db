package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

type parcelRepository struct {
	s *Store
}

func (r *parcelRepository) Create(_ context.Context, parcel *domain.Parcel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.parcels {
		if existing.TrackingID == parcel.TrackingID {
			return repository.ErrDuplicate
		}
	}
	r.s.nextParcelID++
	parcel.ID = r.s.nextParcelID
	r.s.parcels[parcel.ID] = cloneParcel(*parcel)
	return nil
}

func (r *parcelRepository) Update(_ context.Context, parcel *domain.Parcel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.parcels[parcel.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneParcel(*parcel)
	updated.TrackingID = existing.TrackingID
	updated.CreatedAt = existing.CreatedAt
	r.s.parcels[parcel.ID] = updated
	return nil
}

func (r *parcelRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.parcels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.parcels, id)

	kept := r.s.history[:0]
	for _, change := range r.s.history {
		if change.ParcelID != id {
			kept = append(kept, change)
		}
	}
	r.s.history = kept
	return nil
}

func (r *parcelRepository) GetByID(_ context.Context, id int64) (*domain.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parcel, ok := r.s.parcels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cloned := cloneParcel(parcel)
	return &cloned, nil
}

func (r *parcelRepository) GetByTrackingID(_ context.Context, trackingID string) (*domain.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, parcel := range r.s.parcels {
		if parcel.TrackingID == trackingID {
			cloned := cloneParcel(parcel)
			return &cloned, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *parcelRepository) List(_ context.Context) ([]domain.Parcel, error) {
	return r.filter(func(domain.Parcel) bool { return true }), nil
}

func (r *parcelRepository) ListByEmail(_ context.Context, email string) ([]domain.Parcel, error) {
	return r.filter(func(p domain.Parcel) bool { return p.InvolvesEmail(email) }), nil
}

func (r *parcelRepository) ListByStatus(_ context.Context, status domain.ParcelStatus) ([]domain.Parcel, error) {
	return r.filter(func(p domain.Parcel) bool { return p.Status == status }), nil
}

func (r *parcelRepository) ListRecent(_ context.Context, limit int) ([]domain.Parcel, error) {
	if limit <= 0 {
		limit = 10
	}
	all := r.filter(func(domain.Parcel) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *parcelRepository) Search(_ context.Context, term string) ([]domain.Parcel, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	return r.filter(func(p domain.Parcel) bool {
		for _, field := range []string{
			p.TrackingID, p.Sender.Name, p.Sender.Email, p.Recipient.Name, p.Recipient.Email,
			p.Description, p.CurrentLocation,
		} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (r *parcelRepository) CountByStatus(_ context.Context) (map[domain.ParcelStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[domain.ParcelStatus]int64)
	for _, parcel := range r.s.parcels {
		counts[parcel.Status]++
	}
	return counts, nil
}

// filter returns matching parcels newest first.
func (r *parcelRepository) filter(match func(domain.Parcel) bool) []domain.Parcel {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Parcel
	for _, parcel := range r.s.parcels {
		if match(parcel) {
			result = append(result, cloneParcel(parcel))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func cloneParcel(p domain.Parcel) domain.Parcel {
	if p.DeliveredAt != nil {
		delivered := *p.DeliveredAt
		p.DeliveredAt = &delivered
	}
	return p
}

type historyRepository struct {
	s *Store
}

func (r *historyRepository) Create(_ context.Context, change *domain.ParcelStatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.parcels[change.ParcelID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextHistoryID++
	change.ID = r.s.nextHistoryID
	r.s.history = append(r.s.history, *change)
	return nil
}

func (r *historyRepository) ListByParcel(_ context.Context, parcelID int64) ([]domain.ParcelStatusChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.ParcelStatusChange
	for _, change := range r.s.history {
		if change.ParcelID == parcelID {
			result = append(result, change)
		}
	}
	return result, nil
}

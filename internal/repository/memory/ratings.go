package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

type ratingRepository struct {
	s *Store
}

func (r *ratingRepository) Create(_ context.Context, rating *domain.ParcelRating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.ratings {
		if existing.UserEmail == rating.UserEmail && existing.TrackingID == rating.TrackingID {
			return repository.ErrDuplicate
		}
	}
	r.s.nextRatingID++
	rating.ID = r.s.nextRatingID
	r.s.ratings[rating.ID] = *rating
	return nil
}

func (r *ratingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ratings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.ratings, id)
	return nil
}

func (r *ratingRepository) Exists(_ context.Context, userEmail, trackingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.ratings {
		if existing.UserEmail == userEmail && existing.TrackingID == trackingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ratingRepository) ListByTrackingID(_ context.Context, trackingID string) ([]domain.ParcelRating, error) {
	return r.filter(func(rt domain.ParcelRating) bool { return rt.TrackingID == trackingID }, 0), nil
}

func (r *ratingRepository) ListByUser(_ context.Context, userEmail string) ([]domain.ParcelRating, error) {
	return r.filter(func(rt domain.ParcelRating) bool { return rt.UserEmail == userEmail }, 0), nil
}

func (r *ratingRepository) ListRecent(_ context.Context, limit int) ([]domain.ParcelRating, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.filter(func(domain.ParcelRating) bool { return true }, limit), nil
}

func (r *ratingRepository) CountByScore(_ context.Context) (map[int]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[int]int64)
	for _, rating := range r.s.ratings {
		counts[rating.Rating]++
	}
	return counts, nil
}

func (r *ratingRepository) filter(match func(domain.ParcelRating) bool, limit int) []domain.ParcelRating {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.ParcelRating
	for _, rating := range r.s.ratings {
		if match(rating) {
			result = append(result, rating)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

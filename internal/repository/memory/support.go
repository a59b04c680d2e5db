package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

type supportRepository struct {
	s *Store
}

func (r *supportRepository) Create(_ context.Context, request *domain.SupportRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextSupportID++
	request.ID = r.s.nextSupportID
	r.s.support[request.ID] = cloneSupport(*request)
	return nil
}

func (r *supportRepository) Update(_ context.Context, request *domain.SupportRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.support[request.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Status = request.Status
	existing.AdminResponse = request.AdminResponse
	existing.ResolvedAt = request.ResolvedAt
	r.s.support[request.ID] = cloneSupport(existing)
	return nil
}

func (r *supportRepository) GetByID(_ context.Context, id int64) (*domain.SupportRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, ok := r.s.support[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cloned := cloneSupport(request)
	return &cloned, nil
}

func (r *supportRepository) List(_ context.Context) ([]domain.SupportRequest, error) {
	return r.filter(func(domain.SupportRequest) bool { return true }), nil
}

func (r *supportRepository) ListByEmail(_ context.Context, email string) ([]domain.SupportRequest, error) {
	return r.filter(func(sr domain.SupportRequest) bool { return sr.Email == email }), nil
}

func (r *supportRepository) filter(match func(domain.SupportRequest) bool) []domain.SupportRequest {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.SupportRequest
	for _, request := range r.s.support {
		if match(request) {
			result = append(result, cloneSupport(request))
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

func cloneSupport(sr domain.SupportRequest) domain.SupportRequest {
	if sr.ResolvedAt != nil {
		resolved := *sr.ResolvedAt
		sr.ResolvedAt = &resolved
	}
	return sr
}

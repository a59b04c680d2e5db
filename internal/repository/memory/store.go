// Package memory provides in-process implementations of the repository
// interfaces. They enforce the same unique constraints as the Postgres schema
// and are used when no DSN is configured and in tests.
package memory

import (
	"sync"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

// Store holds every table behind a single mutex.
type Store struct {
	mu sync.Mutex

	users   map[int64]domain.User
	parcels map[int64]domain.Parcel
	history []domain.ParcelStatusChange
	ratings map[int64]domain.ParcelRating
	support map[int64]domain.SupportRequest

	nextUserID    int64
	nextParcelID  int64
	nextHistoryID int64
	nextRatingID  int64
	nextSupportID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]domain.User),
		parcels: make(map[int64]domain.Parcel),
		ratings: make(map[int64]domain.ParcelRating),
		support: make(map[int64]domain.SupportRequest),
	}
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Parcels returns the parcel repository view.
func (s *Store) Parcels() repository.ParcelRepository { return &parcelRepository{s} }

// ParcelHistory returns the status history repository view.
func (s *Store) ParcelHistory() repository.ParcelHistoryRepository { return &historyRepository{s} }

// Ratings returns the rating repository view.
func (s *Store) Ratings() repository.RatingRepository { return &ratingRepository{s} }

// Support returns the support request repository view.
func (s *Store) Support() repository.SupportRepository { return &supportRepository{s} }

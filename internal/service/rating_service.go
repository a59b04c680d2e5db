package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

const recentRatingsLimit = 20

// RatingService records customer feedback on delivered parcels.
type RatingService struct {
	ratings repository.RatingRepository
	parcels repository.ParcelRepository
	logger  *zap.Logger
	now     func() time.Time
}

// RatingDependencies bundles collaborators for the rating service.
type RatingDependencies struct {
	RatingRepo repository.RatingRepository
	ParcelRepo repository.ParcelRepository
	Logger     *zap.Logger
	Clock      func() time.Time
}

// RatingInput is a feedback submission.
type RatingInput struct {
	UserEmail  string
	TrackingID string
	Rating     int
	Remarks    string
}

// Eligibility answers whether a user may rate a parcel.
type Eligibility struct {
	Allowed          bool   `json:"canGiveFeedback"`
	Reason           string `json:"reason"`
	ExistingFeedback bool   `json:"existingFeedback,omitempty"`
}

type eligibilityOutcome int

const (
	eligible eligibilityOutcome = iota
	parcelMissing
	parcelNotDelivered
	notParcelParty
	alreadyRated
)

// NewRatingService constructs the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &RatingService{
		ratings: deps.RatingRepo,
		parcels: deps.ParcelRepo,
		logger:  logger,
		now:     clock,
	}
}

// Submit validates and stores a rating. Checks run in a fixed order and the
// first failure wins.
func (s *RatingService) Submit(ctx context.Context, input RatingInput) (*domain.ParcelRating, error) {
	email := strings.TrimSpace(input.UserEmail)
	trackingID := strings.TrimSpace(input.TrackingID)

	if email == "" {
		return nil, apperrors.NewValidationError("User email is required", nil)
	}
	if trackingID == "" {
		return nil, apperrors.NewValidationError("Tracking ID is required", nil)
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, apperrors.NewValidationError("Rating must be between 1 and 5", nil)
	}

	outcome, err := s.eligibility(ctx, trackingID, email)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case parcelMissing:
		return nil, apperrors.NewValidationError("Parcel not found with this tracking ID", nil)
	case parcelNotDelivered:
		return nil, apperrors.NewValidationError("Feedback can only be submitted for delivered parcels", nil)
	case notParcelParty:
		return nil, apperrors.NewForbidden("You are not authorized to give feedback for this parcel")
	case alreadyRated:
		return nil, duplicateRatingError()
	}

	rating := &domain.ParcelRating{
		UserEmail:  email,
		TrackingID: trackingID,
		Rating:     input.Rating,
		Remarks:    strings.TrimSpace(input.Remarks),
		CreatedAt:  s.now(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateRatingError()
		}
		return nil, err
	}

	s.logger.Info("feedback submitted",
		zap.String("tracking_id", trackingID),
		zap.Int("rating", rating.Rating))
	return rating, nil
}

// CanSubmit reports eligibility without writing anything.
func (s *RatingService) CanSubmit(ctx context.Context, trackingID, email string) (Eligibility, error) {
	outcome, err := s.eligibility(ctx, strings.TrimSpace(trackingID), strings.TrimSpace(email))
	if err != nil {
		return Eligibility{}, err
	}
	switch outcome {
	case parcelMissing:
		return Eligibility{Reason: "Parcel not found"}, nil
	case parcelNotDelivered:
		return Eligibility{Reason: "Parcel is not delivered yet"}, nil
	case notParcelParty:
		return Eligibility{Reason: "Not authorized"}, nil
	case alreadyRated:
		return Eligibility{Reason: "Feedback already submitted", ExistingFeedback: true}, nil
	}
	return Eligibility{Allowed: true, Reason: "Can submit feedback"}, nil
}

func (s *RatingService) eligibility(ctx context.Context, trackingID, email string) (eligibilityOutcome, error) {
	parcel, err := s.parcels.GetByTrackingID(ctx, trackingID)
	if errors.Is(err, repository.ErrNotFound) {
		return parcelMissing, nil
	}
	if err != nil {
		return 0, err
	}
	if parcel.Status != domain.ParcelStatusDelivered {
		return parcelNotDelivered, nil
	}
	if !parcel.InvolvesEmail(email) {
		return notParcelParty, nil
	}
	exists, err := s.ratings.Exists(ctx, email, trackingID)
	if err != nil {
		return 0, err
	}
	if exists {
		return alreadyRated, nil
	}
	return eligible, nil
}

// ListByTrackingID returns ratings for one parcel, newest first.
func (s *RatingService) ListByTrackingID(ctx context.Context, trackingID string) ([]domain.ParcelRating, error) {
	return s.ratings.ListByTrackingID(ctx, strings.TrimSpace(trackingID))
}

// ListByUser returns ratings left by email, newest first.
func (s *RatingService) ListByUser(ctx context.Context, email string) ([]domain.ParcelRating, error) {
	return s.ratings.ListByUser(ctx, strings.TrimSpace(email))
}

// Recent returns the latest ratings.
func (s *RatingService) Recent(ctx context.Context) ([]domain.ParcelRating, error) {
	return s.ratings.ListRecent(ctx, recentRatingsLimit)
}

// Stats aggregates the rating table.
func (s *RatingService) Stats(ctx context.Context) (domain.RatingStats, error) {
	counts, err := s.ratings.CountByScore(ctx)
	if err != nil {
		return domain.RatingStats{}, err
	}

	stats := domain.RatingStats{ByScore: make(map[int]int64, domain.MaxRating)}
	var sum int64
	for score := domain.MinRating; score <= domain.MaxRating; score++ {
		n := counts[score]
		stats.ByScore[score] = n
		stats.Total += n
		sum += int64(score) * n
		switch {
		case score <= 2:
			stats.Low += n
		case score >= 4:
			stats.High += n
		}
	}
	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*100) / 100
	}
	return stats, nil
}

// Delete removes a rating.
func (s *RatingService) Delete(ctx context.Context, id int64) error {
	if err := s.ratings.Delete(ctx, id); err != nil {
		return notFoundOr(err, "feedback")
	}
	return nil
}

func duplicateRatingError() error {
	return apperrors.NewConflict("You have already submitted feedback for this parcel", nil)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/cache"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/repository"
	"github.com/spec-kit/parcel-service/internal/trackingid"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

const maxTrackingIDAttempts = 5

// ParcelService owns the parcel lifecycle: registration, status moves,
// timestamps and the notifications they trigger.
type ParcelService struct {
	parcels     repository.ParcelRepository
	history     repository.ParcelHistoryRepository
	cache       cache.TrackingCache
	ids         trackingid.Generator
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	strict      bool
	recentLimit int
	now         func() time.Time
}

// ParcelDependencies bundles collaborators for the parcel service.
type ParcelDependencies struct {
	ParcelRepo  repository.ParcelRepository
	HistoryRepo repository.ParcelHistoryRepository
	Cache       cache.TrackingCache
	IDs         trackingid.Generator
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Config      config.ParcelConfig
	Clock       func() time.Time
}

// ParcelInput describes a parcel registration.
type ParcelInput struct {
	Sender                domain.Contact
	Recipient             domain.Contact
	Description           string
	Weight                string
	Dimensions            string
	Category              string
	Value                 string
	CurrentLocation       string
	Notes                 string
	Priority              string
	ServiceType           string
	PackageSize           string
	EstimatedDeliveryDate string
	DeliveryAttempts      int
	IsFragile             bool
	RequiresSignature     bool
	DeliveryInstructions  string
}

// ParcelDetails is a full overwrite of a parcel's mutable attributes. An
// empty Status leaves the status untouched.
type ParcelDetails struct {
	ParcelInput
	Status string
}

// StatusUpdate carries a status move with optional location and notes.
type StatusUpdate struct {
	Status   string
	Location string
	Notes    string
}

// ParcelStats counts parcels per lifecycle bucket.
type ParcelStats struct {
	Total          int64 `json:"totalParcels"`
	Registered     int64 `json:"registered"`
	InTransit      int64 `json:"inTransit"`
	OutForDelivery int64 `json:"outForDelivery"`
	Delivered      int64 `json:"delivered"`
	Returned       int64 `json:"returned"`
}

// NewParcelService constructs the service.
func NewParcelService(deps ParcelDependencies) *ParcelService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	trackingCache := deps.Cache
	if trackingCache == nil {
		trackingCache = cache.Noop{}
	}
	ids := deps.IDs
	if ids == nil {
		ids = trackingid.NewGenerator(deps.Config.TrackingPrefix)
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	recent := deps.Config.RecentLimit
	if recent <= 0 {
		recent = 10
	}
	return &ParcelService{
		parcels:     deps.ParcelRepo,
		history:     deps.HistoryRepo,
		cache:       trackingCache,
		ids:         ids,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		strict:      deps.Config.StrictTransitions,
		recentLimit: recent,
		now:         clock,
	}
}

// Register validates input, allocates a tracking ID and persists a new parcel
// in REGISTERED status. Notification failures never fail registration.
func (s *ParcelService) Register(ctx context.Context, input ParcelInput) (*domain.Parcel, error) {
	input = trimParcelInput(input)
	if input.Sender.Email == "" || input.Recipient.Email == "" {
		return nil, apperrors.NewValidationError("Sender and recipient emails are required", nil)
	}

	priority, err := domain.ParseParcelPriority(input.Priority)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	serviceType, err := domain.ParseServiceType(input.ServiceType)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	size, err := domain.ParsePackageSize(input.PackageSize)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	now := s.now()
	parcel := &domain.Parcel{
		Sender:                input.Sender,
		Recipient:             input.Recipient,
		Description:           input.Description,
		Weight:                input.Weight,
		Dimensions:            input.Dimensions,
		Category:              input.Category,
		Value:                 input.Value,
		Status:                domain.ParcelStatusRegistered,
		CurrentLocation:       input.CurrentLocation,
		Notes:                 input.Notes,
		Priority:              priority,
		ServiceType:           serviceType,
		PackageSize:           size,
		EstimatedDeliveryDate: input.EstimatedDeliveryDate,
		DeliveryAttempts:      input.DeliveryAttempts,
		IsFragile:             input.IsFragile,
		RequiresSignature:     input.RequiresSignature,
		DeliveryInstructions:  input.DeliveryInstructions,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.createWithTrackingID(ctx, parcel); err != nil {
		return nil, err
	}

	s.logger.Info("parcel registered", zap.String("tracking_id", parcel.TrackingID), zap.Int64("parcel_id", parcel.ID))
	s.publishEvent(ctx, events.New(events.EventParcelRegistered, parcel.TrackingID, now,
		events.ParcelRegisteredPayload{Parcel: *parcel}))
	return parcel, nil
}

func (s *ParcelService) createWithTrackingID(ctx context.Context, parcel *domain.Parcel) error {
	for attempt := 1; attempt <= maxTrackingIDAttempts; attempt++ {
		parcel.TrackingID = s.ids.Next()
		err := s.parcels.Create(ctx, parcel)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		s.logger.Warn("tracking id collision; retrying",
			zap.String("tracking_id", parcel.TrackingID),
			zap.Int("attempt", attempt))
	}
	return fmt.Errorf("allocate tracking id: %w", repository.ErrDuplicate)
}

// UpdateStatus moves a parcel to a new status. Without strict mode any status
// may follow any other.
func (s *ParcelService) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) error {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "parcel")
	}

	status, err := domain.ParseParcelStatus(update.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	location := strings.TrimSpace(update.Location)
	notes := strings.TrimSpace(update.Notes)
	if location != "" {
		parcel.CurrentLocation = location
	}
	if notes != "" {
		parcel.Notes = notes
	}
	return s.applyStatusChange(ctx, parcel, status, location, notes)
}

// UpdateDetails overwrites every mutable attribute. A non-empty status that
// differs from the stored one takes the same path as UpdateStatus.
func (s *ParcelService) UpdateDetails(ctx context.Context, id int64, details ParcelDetails) error {
	details.ParcelInput = trimParcelInput(details.ParcelInput)

	var (
		newStatus domain.ParcelStatus
		err       error
	)
	if strings.TrimSpace(details.Status) != "" {
		if newStatus, err = domain.ParseParcelStatus(details.Status); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}

	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "parcel")
	}

	if details.Priority != "" {
		if parcel.Priority, err = domain.ParseParcelPriority(details.Priority); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}
	if details.ServiceType != "" {
		if parcel.ServiceType, err = domain.ParseServiceType(details.ServiceType); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
	}
	if parcel.PackageSize, err = domain.ParsePackageSize(details.PackageSize); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	parcel.Sender = details.Sender
	parcel.Recipient = details.Recipient
	parcel.Description = details.Description
	parcel.Weight = details.Weight
	parcel.Dimensions = details.Dimensions
	parcel.Category = details.Category
	parcel.Value = details.Value
	parcel.CurrentLocation = details.CurrentLocation
	parcel.Notes = details.Notes
	parcel.EstimatedDeliveryDate = details.EstimatedDeliveryDate
	parcel.DeliveryAttempts = details.DeliveryAttempts
	parcel.IsFragile = details.IsFragile
	parcel.RequiresSignature = details.RequiresSignature
	parcel.DeliveryInstructions = details.DeliveryInstructions

	if newStatus != "" && newStatus != parcel.Status {
		return s.applyStatusChange(ctx, parcel, newStatus, parcel.CurrentLocation, parcel.Notes)
	}

	parcel.UpdatedAt = s.now()
	if err := s.parcels.Update(ctx, parcel); err != nil {
		return notFoundOr(err, "parcel")
	}
	s.invalidate(ctx, parcel.TrackingID)
	return nil
}

// applyStatusChange persists the move and, when the status actually changed,
// records history and publishes the status-changed event.
func (s *ParcelService) applyStatusChange(ctx context.Context, parcel *domain.Parcel, status domain.ParcelStatus, location, notes string) error {
	oldStatus := parcel.Status
	if s.strict && !domain.IsValidParcelTransition(oldStatus, status) {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid status transition from %s to %s", oldStatus, status),
			map[string]any{"from": oldStatus, "to": status},
		)
	}

	now := s.now()
	parcel.ApplyStatus(status, now)
	if err := s.parcels.Update(ctx, parcel); err != nil {
		return notFoundOr(err, "parcel")
	}
	s.invalidate(ctx, parcel.TrackingID)

	if oldStatus == status {
		return nil
	}

	if err := s.recordStatusChange(ctx, parcel.ID, oldStatus, status, location, notes, now); err != nil {
		return err
	}
	s.logger.Info("parcel status changed",
		zap.String("tracking_id", parcel.TrackingID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)))
	s.publishEvent(ctx, events.New(events.EventParcelStatusChanged, parcel.TrackingID, now,
		events.ParcelStatusChangedPayload{
			Parcel:    *parcel,
			OldStatus: oldStatus,
			NewStatus: status,
			Location:  location,
			Notes:     notes,
		}))
	return nil
}

func (s *ParcelService) recordStatusChange(ctx context.Context, parcelID int64, oldStatus, newStatus domain.ParcelStatus, location, notes string, at time.Time) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.ParcelStatusChange{
		ParcelID:  parcelID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Location:  location,
		Notes:     notes,
		CreatedAt: at,
	})
}

// Track returns the parcel for a tracking ID, reading through the cache.
func (s *ParcelService) Track(ctx context.Context, trackingID string) (*domain.Parcel, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, apperrors.NewValidationError("Tracking ID is required", nil)
	}

	if cached, ok, err := s.cache.Get(ctx, trackingID); err != nil {
		s.logger.Warn("tracking cache read failed", zap.String("tracking_id", trackingID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	parcel, err := s.parcels.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, notFoundOr(err, "Parcel not found with tracking ID: "+trackingID)
	}

	if err := s.cache.Set(ctx, parcel); err != nil {
		s.logger.Warn("tracking cache write failed", zap.String("tracking_id", trackingID), zap.Error(err))
	}
	return parcel, nil
}

// History returns the status trail of a parcel, oldest first.
func (s *ParcelService) History(ctx context.Context, trackingID string) ([]domain.ParcelStatusChange, error) {
	parcel, err := s.parcels.GetByTrackingID(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		return nil, notFoundOr(err, "Parcel not found with tracking ID: "+trackingID)
	}
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByParcel(ctx, parcel.ID)
}

// Get returns a parcel by its surrogate id.
func (s *ParcelService) Get(ctx context.Context, id int64) (*domain.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "parcel")
	}
	return parcel, nil
}

// Delete removes a parcel and its history.
func (s *ParcelService) Delete(ctx context.Context, id int64) error {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "parcel")
	}
	if err := s.parcels.Delete(ctx, id); err != nil {
		return notFoundOr(err, "parcel")
	}
	s.invalidate(ctx, parcel.TrackingID)
	return nil
}

// ListAll returns every parcel, newest first.
func (s *ParcelService) ListAll(ctx context.Context) ([]domain.Parcel, error) {
	return s.parcels.List(ctx)
}

// ListByUser returns parcels where email is the sender or the recipient.
func (s *ParcelService) ListByUser(ctx context.Context, email string) ([]domain.Parcel, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewValidationError("Email is required", nil)
	}
	return s.parcels.ListByEmail(ctx, email)
}

// ListByStatus returns parcels currently in status.
func (s *ParcelService) ListByStatus(ctx context.Context, rawStatus string) ([]domain.Parcel, error) {
	status, err := domain.ParseParcelStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	return s.parcels.ListByStatus(ctx, status)
}

// Recent returns the newest parcels up to the configured limit.
func (s *ParcelService) Recent(ctx context.Context) ([]domain.Parcel, error) {
	return s.parcels.ListRecent(ctx, s.recentLimit)
}

// Search matches term case-insensitively against identifying fields. An empty
// term lists everything.
func (s *ParcelService) Search(ctx context.Context, term string) ([]domain.Parcel, error) {
	if strings.TrimSpace(term) == "" {
		return s.parcels.List(ctx)
	}
	return s.parcels.Search(ctx, term)
}

// Stats counts parcels in each status bucket.
func (s *ParcelService) Stats(ctx context.Context) (ParcelStats, error) {
	counts, err := s.parcels.CountByStatus(ctx)
	if err != nil {
		return ParcelStats{}, err
	}
	stats := ParcelStats{
		Registered:     counts[domain.ParcelStatusRegistered],
		InTransit:      counts[domain.ParcelStatusInTransit],
		OutForDelivery: counts[domain.ParcelStatusOutForDelivery],
		Delivered:      counts[domain.ParcelStatusDelivered],
		Returned:       counts[domain.ParcelStatusReturned],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

func (s *ParcelService) invalidate(ctx context.Context, trackingID string) {
	if err := s.cache.Invalidate(ctx, trackingID); err != nil {
		s.logger.Warn("tracking cache invalidation failed", zap.String("tracking_id", trackingID), zap.Error(err))
	}
}

func (s *ParcelService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func trimParcelInput(in ParcelInput) ParcelInput {
	in.Sender = trimContact(in.Sender)
	in.Recipient = trimContact(in.Recipient)
	in.Description = strings.TrimSpace(in.Description)
	in.Weight = strings.TrimSpace(in.Weight)
	in.Dimensions = strings.TrimSpace(in.Dimensions)
	in.Category = strings.TrimSpace(in.Category)
	in.Value = strings.TrimSpace(in.Value)
	in.CurrentLocation = strings.TrimSpace(in.CurrentLocation)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Priority = strings.TrimSpace(in.Priority)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.PackageSize = strings.TrimSpace(in.PackageSize)
	in.EstimatedDeliveryDate = strings.TrimSpace(in.EstimatedDeliveryDate)
	in.DeliveryInstructions = strings.TrimSpace(in.DeliveryInstructions)
	return in
}

func trimContact(c domain.Contact) domain.Contact {
	return domain.Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

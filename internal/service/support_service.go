package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// SupportNotifier mails support request notifications.
type SupportNotifier interface {
	NotifySupportAdmin(ctx context.Context, request domain.SupportRequest) error
	NotifySupportUser(ctx context.Context, request domain.SupportRequest)
}

// SupportService manages customer support tickets.
type SupportService struct {
	requests repository.SupportRepository
	notifier SupportNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// SupportDependencies bundles collaborators for the support service.
type SupportDependencies struct {
	SupportRepo repository.SupportRepository
	Notifier    SupportNotifier
	Logger      *zap.Logger
	Clock       func() time.Time
}

// SupportInput is a support ticket submission.
type SupportInput struct {
	Name       string
	Email      string
	Phone      string
	Subject    string
	Message    string
	IssueType  string
	Priority   string
	TrackingID string
}

// NewSupportService constructs the service.
func NewSupportService(deps SupportDependencies) *SupportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &SupportService{
		requests: deps.SupportRepo,
		notifier: deps.Notifier,
		logger:   logger,
		now:      clock,
	}
}

// Submit validates, persists, then notifies. If the admin mail fails the
// request stays stored and the error is returned.
func (s *SupportService) Submit(ctx context.Context, input SupportInput) (*domain.SupportRequest, error) {
	request := &domain.SupportRequest{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Subject:    strings.TrimSpace(input.Subject),
		Message:    strings.TrimSpace(input.Message),
		TrackingID: strings.TrimSpace(input.TrackingID),
		Status:     domain.SupportStatusOpen,
	}
	if err := requireNameEmailMessage(request.Name, request.Email, request.Message); err != nil {
		return nil, err
	}

	var err error
	if request.IssueType, err = domain.ParseIssueType(input.IssueType); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if request.Priority, err = domain.ParseRequestPriority(input.Priority); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	request.CreatedAt = s.now()
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info("support request created",
		zap.Int64("support_request_id", request.ID),
		zap.String("issue_type", string(request.IssueType)))

	if s.notifier == nil {
		return request, nil
	}
	if err := s.notifier.NotifySupportAdmin(ctx, *request); err != nil {
		return request, err
	}
	s.notifier.NotifySupportUser(ctx, *request)
	return request, nil
}

// UpdateStatus changes a ticket's status and optionally records the admin
// response. RESOLVED and CLOSED stamp ResolvedAt.
func (s *SupportService) UpdateStatus(ctx context.Context, id int64, rawStatus, adminResponse string) (*domain.SupportRequest, error) {
	status, err := domain.ParseSupportStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Support request not found")
	}

	request.Status = status
	if response := strings.TrimSpace(adminResponse); response != "" {
		request.AdminResponse = response
	}
	if status.IsTerminal() {
		resolved := s.now()
		request.ResolvedAt = &resolved
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, notFoundOr(err, "Support request not found")
	}
	return request, nil
}

// ListAll returns every ticket, newest first.
func (s *SupportService) ListAll(ctx context.Context) ([]domain.SupportRequest, error) {
	return s.requests.List(ctx)
}

// ListByEmail returns tickets filed by email, newest first.
func (s *SupportService) ListByEmail(ctx context.Context, email string) ([]domain.SupportRequest, error) {
	return s.requests.ListByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

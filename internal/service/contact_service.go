package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/pkg/util/validation"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// ContactNotifier delivers contact form messages.
type ContactNotifier interface {
	SendContactMessage(ctx context.Context, msg domain.ContactMessage) error
}

// ContactService relays contact form messages to the administrator. Nothing is stored.
type ContactService struct {
	notifier ContactNotifier
	logger   *zap.Logger
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Type     string
	Priority string
}

// NewContactService constructs the service.
func NewContactService(notifier ContactNotifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{notifier: notifier, logger: logger}
}

// Submit validates the message and mails it. A mail failure fails the call.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) error {
	msg := domain.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	if err := requireNameEmailMessage(msg.Name, msg.Email, msg.Message); err != nil {
		return err
	}

	var err error
	if msg.Type, err = domain.ParseContactType(input.Type); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if msg.Priority, err = domain.ParseRequestPriority(input.Priority); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.notifier.SendContactMessage(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("contact message sent", zap.String("type", string(msg.Type)))
	return nil
}

func requireNameEmailMessage(name, email, message string) error {
	switch {
	case name == "":
		return apperrors.NewValidationError("Name is required", nil)
	case email == "":
		return apperrors.NewValidationError("Email is required", nil)
	case message == "":
		return apperrors.NewValidationError("Message is required", nil)
	case !validation.IsEmail(email):
		return apperrors.NewValidationError("Invalid email format", nil)
	}
	return nil
}

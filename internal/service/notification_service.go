package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/notification"
	"github.com/spec-kit/parcel-service/internal/observability"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// NotificationService renders and sends transactional email for domain events
// and for the support and contact flows.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notification.Mailer
	renderer   *notification.Renderer
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.MailConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Mailer     notification.Mailer
	Renderer   *notification.Renderer
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Config     config.MailConfig
}

// NewNotificationService creates the service. A nil mailer falls back to NoopMailer.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = notification.NoopMailer{Logger: logger}
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		mailer:     mailer,
		renderer:   deps.Renderer,
		logger:     logger,
		metrics:    deps.Metrics,
		cfg:        deps.Config,
	}
}

// RegisterHandlers subscribes to parcel events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventParcelRegistered, n.handleParcelRegistered)
	n.dispatcher.Subscribe(events.EventParcelStatusChanged, n.handleParcelStatusChanged)
}

// handleParcelRegistered mails the recipient then the sender. Failures are
// logged per recipient and never returned.
func (n *NotificationService) handleParcelRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ParcelRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	data := notification.ParcelData{Parcel: payload.Parcel, SupportAddress: n.cfg.AdminAddress}

	n.sendBestEffort(ctx, notification.ParcelRegisteredRecipient, payload.Parcel.Recipient.Email, "", data,
		zap.String("tracking_id", payload.Parcel.TrackingID))
	n.sendBestEffort(ctx, notification.ParcelRegisteredSender, payload.Parcel.Sender.Email, "", data,
		zap.String("tracking_id", payload.Parcel.TrackingID))
	return nil
}

func (n *NotificationService) handleParcelStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ParcelStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	data := notification.ParcelData{
		Parcel:         payload.Parcel,
		OldStatus:      payload.OldStatus,
		SupportAddress: n.cfg.AdminAddress,
	}

	n.sendBestEffort(ctx, notification.ParcelStatusRecipient, payload.Parcel.Recipient.Email, "", data,
		zap.String("tracking_id", payload.Parcel.TrackingID))
	n.sendBestEffort(ctx, notification.ParcelStatusSender, payload.Parcel.Sender.Email, "", data,
		zap.String("tracking_id", payload.Parcel.TrackingID))
	return nil
}

// NotifySupportAdmin mails the administrator about a new support request.
// Failure is returned as a dependency error.
func (n *NotificationService) NotifySupportAdmin(ctx context.Context, request domain.SupportRequest) error {
	data := notification.SupportData{Request: request, SupportAddress: n.cfg.AdminAddress}
	if err := n.send(ctx, notification.SupportAdmin, n.cfg.AdminAddress, request.Email, data); err != nil {
		n.logger.Error("support admin notification failed",
			zap.Int64("support_request_id", request.ID),
			zap.String("recipient", n.cfg.AdminAddress),
			zap.Error(err))
		return apperrors.NewDependencyError("Failed to send support request", err)
	}
	return nil
}

// NotifySupportUser sends the confirmation to the requester. Failures are only logged.
func (n *NotificationService) NotifySupportUser(ctx context.Context, request domain.SupportRequest) {
	data := notification.SupportData{Request: request, SupportAddress: n.cfg.AdminAddress}
	n.sendBestEffort(ctx, notification.SupportUser, request.Email, "", data,
		zap.Int64("support_request_id", request.ID))
}

// SendContactMessage forwards a contact form to the administrator with the
// sender as reply-to. Failure is returned as a dependency error.
func (n *NotificationService) SendContactMessage(ctx context.Context, msg domain.ContactMessage) error {
	data := notification.ContactData{Message: msg}
	if err := n.send(ctx, notification.ContactAdmin, n.cfg.AdminAddress, msg.Email, data); err != nil {
		n.logger.Error("contact message delivery failed",
			zap.String("recipient", n.cfg.AdminAddress),
			zap.String("reply_to", msg.Email),
			zap.Error(err))
		return apperrors.NewDependencyError("Failed to send feedback", err)
	}
	return nil
}

func (n *NotificationService) sendBestEffort(ctx context.Context, tmpl notification.Template, to, replyTo string, data any, fields ...zap.Field) {
	if err := n.send(ctx, tmpl, to, replyTo, data); err != nil {
		fields = append(fields,
			zap.String("template", string(tmpl)),
			zap.String("recipient", to),
			zap.Error(err))
		n.logger.Warn("notification failed", fields...)
	}
}

// send renders tmpl and delivers it within the configured send timeout.
func (n *NotificationService) send(ctx context.Context, tmpl notification.Template, to, replyTo string, data any) error {
	if n.renderer == nil {
		return errors.New("no renderer configured")
	}
	if to == "" {
		n.metrics.RecordNotification(string(tmpl), "failed")
		return errors.New("empty recipient")
	}

	email, err := n.renderer.Render(tmpl, data)
	if err != nil {
		n.metrics.RecordNotification(string(tmpl), "failed")
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.cfg.SendTimeout())
	defer cancel()

	err = n.mailer.Send(sendCtx, notification.Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: email.Subject,
		Body:    email.Body,
	})
	if err != nil {
		n.metrics.RecordNotification(string(tmpl), "failed")
		return err
	}
	n.metrics.RecordNotification(string(tmpl), "sent")
	return nil
}

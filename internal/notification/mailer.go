// Package notification renders and delivers transactional email.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is a single outbound plain-text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers messages. Implementations must honor ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NoopMailer logs messages instead of sending them.
type NoopMailer struct {
	Logger *zap.Logger
}

// Send records the message at debug level and succeeds.
func (m NoopMailer) Send(_ context.Context, msg Message) error {
	if m.Logger != nil {
		m.Logger.Debug("mail transport disabled; dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
	return nil
}

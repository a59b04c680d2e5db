// Package mailtest provides a recording Mailer for tests.
package mailtest

import (
	"context"
	"sync"

	"github.com/spec-kit/parcel-service/internal/notification"
)

// Recorder captures every message it is asked to send.
type Recorder struct {
	mu   sync.Mutex
	sent []notification.Message

	// Err, when set, is returned for every send.
	Err error
	// FailFor returns an error for specific recipients.
	FailFor map[string]error
}

// Send records msg and returns the configured error, if any. Failed sends are not recorded.
func (r *Recorder) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if err, ok := r.FailFor[msg.To]; ok {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Message(nil), r.sent...)
}

// SentTo returns the recorded messages addressed to recipient.
func (r *Recorder) SentTo(recipient string) []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []notification.Message
	for _, msg := range r.sent {
		if msg.To == recipient {
			out = append(out, msg)
		}
	}
	return out
}

// Reset clears the recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe(EventParcelRegistered, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventParcelRegistered, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventParcelStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	evt := New(EventParcelRegistered, "TRK1", time.Now(), ParcelRegisteredPayload{})
	if err := d.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publish returned %v", err)
	}

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v, want [first second]", calls)
	}
}

func TestNewAssignsID(t *testing.T) {
	a := New(EventParcelStatusChanged, "TRK1", time.Now(), nil)
	b := New(EventParcelStatusChanged, "TRK1", time.Now(), nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/cache"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/notification"
	"github.com/spec-kit/parcel-service/internal/notification/mailtest"
	"github.com/spec-kit/parcel-service/internal/repository/memory"
)

const (
	testAdminAddress = "admin@example.com"
	testSender       = "a@x.com"
	testRecipient    = "b@x.com"
)

// steppingClock advances one second on every call so ordering is deterministic.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	store    *memory.Store
	mailer   *mailtest.Recorder
	notifier *NotificationService
	parcels  *ParcelService
	ratings  *RatingService
	support  *SupportService
	contact  *ContactService
	clock    *steppingClock
}

type envOption func(*ParcelDependencies)

func withStrictTransitions() envOption {
	return func(d *ParcelDependencies) { d.Config.StrictTransitions = true }
}

func withCache(c cache.TrackingCache) envOption {
	return func(d *ParcelDependencies) { d.Cache = c }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	renderer, err := notification.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	logger := zap.NewNop()
	store := memory.NewStore()
	mailer := &mailtest.Recorder{}
	clock := newSteppingClock()
	dispatcher := events.NewInMemoryDispatcher(logger)

	notifier := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Mailer:     mailer,
		Renderer:   renderer,
		Logger:     logger,
		Config: config.MailConfig{
			From:               "noreply@example.com",
			AdminAddress:       testAdminAddress,
			SendTimeoutSeconds: 1,
		},
	})
	notifier.RegisterHandlers()

	parcelDeps := ParcelDependencies{
		ParcelRepo:  store.Parcels(),
		HistoryRepo: store.ParcelHistory(),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Config:      config.ParcelConfig{TrackingPrefix: "TRK", RecentLimit: 10},
		Clock:       clock.Now,
	}
	for _, opt := range opts {
		opt(&parcelDeps)
	}

	return &testEnv{
		store:    store,
		mailer:   mailer,
		notifier: notifier,
		parcels:  NewParcelService(parcelDeps),
		ratings: NewRatingService(RatingDependencies{
			RatingRepo: store.Ratings(),
			ParcelRepo: store.Parcels(),
			Logger:     logger,
			Clock:      clock.Now,
		}),
		support: NewSupportService(SupportDependencies{
			SupportRepo: store.Support(),
			Notifier:    notifier,
			Logger:      logger,
			Clock:       clock.Now,
		}),
		contact: NewContactService(notifier, logger),
		clock:   clock,
	}
}

func (e *testEnv) registerParcel(t *testing.T) *domain.Parcel {
	t.Helper()
	parcel, err := e.parcels.Register(context.Background(), ParcelInput{
		Sender:      domain.Contact{Name: "Ann", Email: testSender},
		Recipient:   domain.Contact{Name: "Ben", Email: testRecipient},
		Description: "books",
	})
	if err != nil {
		t.Fatalf("register parcel: %v", err)
	}
	return parcel
}

func (e *testEnv) deliveredParcel(t *testing.T) *domain.Parcel {
	t.Helper()
	return e.parcelWithStatus(t, domain.ParcelStatusDelivered)
}

// parcelWithStatus registers a parcel and walks it along the lifecycle until
// it reaches status.
func (e *testEnv) parcelWithStatus(t *testing.T, status domain.ParcelStatus) *domain.Parcel {
	t.Helper()
	parcel := e.registerParcel(t)
	for _, step := range domain.ParcelStatuses[1:] {
		if err := e.parcels.UpdateStatus(context.Background(), parcel.ID, StatusUpdate{Status: string(step)}); err != nil {
			t.Fatalf("move parcel to %s: %v", step, err)
		}
		if step == status {
			break
		}
	}
	e.mailer.Reset()
	return parcel
}

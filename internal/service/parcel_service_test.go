package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/parcel-service/internal/cache"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

type collidingGenerator struct {
	ids []string
	i   int
}

func (g *collidingGenerator) Next() string {
	id := g.ids[g.i]
	if g.i < len(g.ids)-1 {
		g.i++
	}
	return id
}

func TestRegisterParcel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parcel := env.registerParcel(t)

	if !strings.HasPrefix(parcel.TrackingID, "TRK") || len(parcel.TrackingID) <= 3 {
		t.Fatalf("tracking id = %q, want TRK prefix", parcel.TrackingID)
	}
	if parcel.Status != domain.ParcelStatusRegistered {
		t.Errorf("status = %s, want REGISTERED", parcel.Status)
	}
	if parcel.Priority != domain.ParcelPriorityNormal || parcel.ServiceType != domain.ServiceTypeStandard {
		t.Errorf("defaults = %s/%s", parcel.Priority, parcel.ServiceType)
	}
	if parcel.CreatedAt.IsZero() || !parcel.CreatedAt.Equal(parcel.UpdatedAt) {
		t.Errorf("timestamps not stamped: %v / %v", parcel.CreatedAt, parcel.UpdatedAt)
	}

	tracked, err := env.parcels.Track(ctx, parcel.TrackingID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tracked.ID != parcel.ID {
		t.Errorf("tracked id = %d, want %d", tracked.ID, parcel.ID)
	}

	mine, err := env.parcels.ListByUser(ctx, testSender)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 1 || mine[0].TrackingID != parcel.TrackingID {
		t.Errorf("list by user = %+v", mine)
	}

	sent := env.mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("sent %d mails, want 2", len(sent))
	}
	if sent[0].To != testRecipient || sent[1].To != testSender {
		t.Errorf("mail order = %s, %s; want recipient then sender", sent[0].To, sent[1].To)
	}
	if !strings.Contains(sent[0].Subject, parcel.TrackingID) {
		t.Errorf("subject %q missing tracking id", sent[0].Subject)
	}
}

func TestRegisterParcelValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ParcelInput
	}{
		{"missing sender", ParcelInput{Recipient: domain.Contact{Email: testRecipient}}},
		{"missing recipient", ParcelInput{Sender: domain.Contact{Email: testSender}}},
		{"blank emails", ParcelInput{Sender: domain.Contact{Email: "  "}, Recipient: domain.Contact{Email: testRecipient}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.parcels.Register(ctx, tc.input)
			if !apperrors.HasCode(err, "VALIDATION_FAILED") {
				t.Fatalf("err = %v, want validation error", err)
			}
			if de := apperrors.ToDomainError(err); de.Message != "Sender and recipient emails are required" {
				t.Errorf("message = %q", de.Message)
			}
		})
	}

	_, err := env.parcels.Register(ctx, ParcelInput{
		Sender:    domain.Contact{Email: testSender},
		Recipient: domain.Contact{Email: testRecipient},
		Priority:  "whenever",
	})
	if !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Errorf("bad priority err = %v", err)
	}
}

func TestRegisterParcelSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.Err = errors.New("smtp down")

	parcel := env.registerParcel(t)
	if parcel.ID == 0 {
		t.Fatal("parcel was not persisted")
	}
}

func TestRegisterParcelRetriesTrackingIDCollision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.registerParcel(t)

	svc := NewParcelService(ParcelDependencies{
		ParcelRepo:  env.store.Parcels(),
		HistoryRepo: env.store.ParcelHistory(),
		IDs:         &collidingGenerator{ids: []string{first.TrackingID, "TRKFRESH"}},
	})
	parcel, err := svc.Register(ctx, ParcelInput{
		Sender:    domain.Contact{Email: testSender},
		Recipient: domain.Contact{Email: testRecipient},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if parcel.TrackingID != "TRKFRESH" {
		t.Errorf("tracking id = %q, want TRKFRESH", parcel.TrackingID)
	}

	stuck := NewParcelService(ParcelDependencies{
		ParcelRepo: env.store.Parcels(),
		IDs:        &collidingGenerator{ids: []string{first.TrackingID}},
	})
	_, err = stuck.Register(ctx, ParcelInput{
		Sender:    domain.Contact{Email: testSender},
		Recipient: domain.Contact{Email: testRecipient},
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate after exhausting attempts", err)
	}
}

func TestUpdateStatusDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)
	env.mailer.Reset()

	err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "delivered", Location: "Front desk", Notes: "signed"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := env.parcels.Get(ctx, parcel.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.ParcelStatusDelivered {
		t.Errorf("status = %s", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatal("deliveredAt not stamped")
	}
	if !got.UpdatedAt.After(parcel.UpdatedAt) {
		t.Errorf("updatedAt not refreshed")
	}
	if got.CurrentLocation != "Front desk" || got.Notes != "signed" {
		t.Errorf("location/notes = %q/%q", got.CurrentLocation, got.Notes)
	}

	history, err := env.parcels.History(ctx, parcel.TrackingID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].OldStatus != domain.ParcelStatusRegistered || history[0].NewStatus != domain.ParcelStatusDelivered {
		t.Errorf("history = %+v", history)
	}

	sent := env.mailer.Sent()
	if len(sent) != 2 || sent[0].To != testRecipient || sent[1].To != testSender {
		t.Errorf("status mails = %+v", sent)
	}
}

func TestUpdateStatusSameStatusIsQuiet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)
	env.mailer.Reset()

	if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "REGISTERED"}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, _ := env.parcels.Get(ctx, parcel.ID)
	if !got.UpdatedAt.After(parcel.UpdatedAt) {
		t.Error("updatedAt should be refreshed even without a status change")
	}
	if n := len(env.mailer.Sent()); n != 0 {
		t.Errorf("sent %d mails, want 0", n)
	}
	history, _ := env.parcels.History(ctx, parcel.TrackingID)
	if len(history) != 0 {
		t.Errorf("history = %+v, want empty", history)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)

	err := env.parcels.UpdateStatus(ctx, 999, StatusUpdate{Status: "IN_TRANSIT"})
	if !apperrors.HasCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want not found", err)
	}
	if de := apperrors.ToDomainError(err); de.Message != "parcel not found" {
		t.Errorf("message = %q", de.Message)
	}

	err = env.parcels.UpdateStatus(ctx, 999, StatusUpdate{Status: "LOST"})
	if !apperrors.HasCode(err, "NOT_FOUND") {
		t.Errorf("missing parcel with unknown status err = %v, want not found", err)
	}

	err = env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "LOST"})
	if !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown status err = %v", err)
	}
}

func TestUpdateStatusKeepsLocationWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)

	if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "IN_TRANSIT", Location: "Hub 7", Notes: "sorted"}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "OUT_FOR_DELIVERY"}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, err := env.parcels.Get(ctx, parcel.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.ParcelStatusOutForDelivery {
		t.Errorf("status = %s", got.Status)
	}
	if got.CurrentLocation != "Hub 7" || got.Notes != "sorted" {
		t.Errorf("location/notes = %q/%q, want stored values kept", got.CurrentLocation, got.Notes)
	}
}

func TestLenientTransitionsAllowAnyMove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)

	for _, status := range []string{"DELIVERED", "REGISTERED", "RETURNED", "IN_TRANSIT"} {
		if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: status}); err != nil {
			t.Fatalf("move to %s: %v", status, err)
		}
	}
}

func TestStrictTransitions(t *testing.T) {
	env := newTestEnv(t, withStrictTransitions())
	ctx := context.Background()
	parcel := env.registerParcel(t)

	err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "DELIVERED"})
	if !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("err = %v, want validation error", err)
	}
	if de := apperrors.ToDomainError(err); de.Message != "invalid status transition from REGISTERED to DELIVERED" {
		t.Errorf("message = %q", de.Message)
	}

	got, _ := env.parcels.Get(ctx, parcel.ID)
	if got.Status != domain.ParcelStatusRegistered {
		t.Errorf("rejected move changed status to %s", got.Status)
	}

	for _, status := range []string{"REGISTERED", "IN_TRANSIT", "OUT_FOR_DELIVERY", "DELIVERED"} {
		if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: status}); err != nil {
			t.Fatalf("move to %s: %v", status, err)
		}
	}
}

func TestUpdateDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parcel := env.registerParcel(t)
	env.mailer.Reset()

	details := ParcelDetails{
		ParcelInput: ParcelInput{
			Sender:      domain.Contact{Name: "Ann", Email: testSender},
			Recipient:   domain.Contact{Name: "Ben", Email: "c@x.com"},
			Description: "more books",
			Priority:    "high",
			IsFragile:   true,
		},
	}
	if err := env.parcels.UpdateDetails(ctx, parcel.ID, details); err != nil {
		t.Fatalf("update details: %v", err)
	}
	got, _ := env.parcels.Get(ctx, parcel.ID)
	if got.Recipient.Email != "c@x.com" || got.Description != "more books" || !got.IsFragile {
		t.Errorf("details not applied: %+v", got)
	}
	if got.Priority != domain.ParcelPriorityHigh || got.ServiceType != domain.ServiceTypeStandard {
		t.Errorf("priority/service = %s/%s", got.Priority, got.ServiceType)
	}
	if n := len(env.mailer.Sent()); n != 0 {
		t.Errorf("sent %d mails without a status change", n)
	}

	details.Status = "IN_TRANSIT"
	if err := env.parcels.UpdateDetails(ctx, parcel.ID, details); err != nil {
		t.Fatalf("update details with status: %v", err)
	}
	history, _ := env.parcels.History(ctx, parcel.TrackingID)
	if len(history) != 1 || history[0].NewStatus != domain.ParcelStatusInTransit {
		t.Errorf("history = %+v", history)
	}
	if len(env.mailer.SentTo("c@x.com")) != 1 {
		t.Errorf("new recipient was not notified")
	}
}

func TestTrackReadsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, withCache(cache.NewRedisTrackingCache(client, time.Minute)))
	ctx := context.Background()
	parcel := env.registerParcel(t)
	key := "parcel:tracking:" + parcel.TrackingID

	if _, err := env.parcels.Track(ctx, parcel.TrackingID); err != nil {
		t.Fatalf("track: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatal("tracked parcel was not cached")
	}

	if err := env.parcels.UpdateStatus(ctx, parcel.ID, StatusUpdate{Status: "IN_TRANSIT"}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("status update did not invalidate the cache")
	}

	tracked, err := env.parcels.Track(ctx, parcel.TrackingID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tracked.Status != domain.ParcelStatusInTransit {
		t.Errorf("status = %s, want IN_TRANSIT", tracked.Status)
	}
}

func TestTrackNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.parcels.Track(context.Background(), "TRKMISSING")
	if !apperrors.HasCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want not found", err)
	}
	if de := apperrors.ToDomainError(err); de.Message != "Parcel not found with tracking ID: TRKMISSING" {
		t.Errorf("message = %q", de.Message)
	}
}

func TestParcelQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerParcel(t)
	b := env.registerParcel(t)
	env.registerParcel(t)
	if err := env.parcels.UpdateStatus(ctx, a.ID, StatusUpdate{Status: "DELIVERED"}); err != nil {
		t.Fatal(err)
	}
	if err := env.parcels.UpdateStatus(ctx, b.ID, StatusUpdate{Status: "IN_TRANSIT"}); err != nil {
		t.Fatal(err)
	}

	stats, err := env.parcels.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := ParcelStats{Total: 3, Registered: 1, InTransit: 1, Delivered: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	delivered, err := env.parcels.ListByStatus(ctx, "delivered")
	if err != nil || len(delivered) != 1 || delivered[0].ID != a.ID {
		t.Errorf("list by status = %+v, %v", delivered, err)
	}
	if _, err := env.parcels.ListByStatus(ctx, "nope"); !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Errorf("bad status err = %v", err)
	}

	recent, err := env.parcels.Recent(ctx)
	if err != nil || len(recent) != 3 {
		t.Fatalf("recent = %d, %v", len(recent), err)
	}

	found, err := env.parcels.Search(ctx, strings.ToLower(b.TrackingID))
	if err != nil || len(found) != 1 || found[0].ID != b.ID {
		t.Errorf("search = %+v, %v", found, err)
	}

	if err := env.parcels.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.parcels.Delete(ctx, a.ID); !apperrors.HasCode(err, "NOT_FOUND") {
		t.Errorf("second delete err = %v", err)
	}
	all, _ := env.parcels.ListAll(ctx)
	if len(all) != 2 {
		t.Errorf("list all = %d, want 2", len(all))
	}
}

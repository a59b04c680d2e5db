package notification

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func sampleParcel() domain.Parcel {
	created := time.Date(2024, 2, 3, 14, 5, 0, 0, time.UTC)
	return domain.Parcel{
		TrackingID:           "TRK01HV0000000000000000000",
		Sender:               domain.Contact{Name: "Sam", Email: "sam@example.com"},
		Recipient:            domain.Contact{Name: "Rita", Email: "rita@example.com", Address: "1 Main St"},
		Description:          "Books",
		Status:               domain.ParcelStatusRegistered,
		Priority:             domain.ParcelPriorityNormal,
		ServiceType:          domain.ServiceTypeExpress,
		RequiresSignature:    true,
		DeliveryInstructions: "Leave at door",
		CreatedAt:            created,
		UpdatedAt:            created,
	}
}

func TestRenderParcelRegistered(t *testing.T) {
	r := newTestRenderer(t)
	data := ParcelData{Parcel: sampleParcel(), SupportAddress: "help@example.com"}

	email, err := r.Render(ParcelRegisteredRecipient, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if email.Subject != "New Parcel Shipped to You - Tracking ID: TRK01HV0000000000000000000" {
		t.Errorf("subject = %q", email.Subject)
	}
	for _, want := range []string{
		"Dear Rita,",
		"From: Sam (sam@example.com)",
		"Current Status: Registered (Preparing for shipment)",
		"Shipped Date: Feb 03, 2024 14:05",
		"Leave at door",
		"requires a signature",
	} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("body missing %q:\n%s", want, email.Body)
		}
	}
	if strings.Contains(email.Body, "FRAGILE") {
		t.Error("body should not flag a non-fragile parcel")
	}

	email, err = r.Render(ParcelRegisteredSender, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(email.Body, "Dear Sam,") {
		t.Errorf("sender body starts with %q", email.Body[:20])
	}
}

func TestRenderParcelStatusChanged(t *testing.T) {
	r := newTestRenderer(t)
	p := sampleParcel()
	p.Status = domain.ParcelStatusOutForDelivery
	p.CurrentLocation = "Depot 4"

	email, err := r.Render(ParcelStatusSender, ParcelData{Parcel: p, OldStatus: domain.ParcelStatusInTransit})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if email.Subject != "Your Parcel Status Update - "+p.TrackingID {
		t.Errorf("subject = %q", email.Subject)
	}
	for _, want := range []string{
		"Previous Status: In Transit (On the way)",
		"Current Status: Out for Delivery (Arriving today)",
		"Current Location: Depot 4",
		"should arrive today",
	} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("body missing %q:\n%s", want, email.Body)
		}
	}
	if strings.Contains(email.Body, "Update Notes") {
		t.Error("empty notes should be omitted")
	}
}

func TestRenderSupportAdminSubject(t *testing.T) {
	r := newTestRenderer(t)
	tests := []struct {
		name string
		req  domain.SupportRequest
		want string
	}{
		{
			name: "high priority with subject",
			req:  domain.SupportRequest{Name: "Ann", Priority: domain.RequestPriorityHigh, IssueType: domain.IssueTypeTrackingIssue, Subject: "Lost parcel"},
			want: "HIGH PRIORITY - TRACKING_ISSUE - Lost parcel",
		},
		{
			name: "urgent",
			req:  domain.SupportRequest{Name: "Ann", Priority: domain.RequestPriorityUrgent, IssueType: domain.IssueTypeGeneral, Subject: "Help"},
			want: "URGENT - GENERAL - Help",
		},
		{
			name: "medium without subject",
			req:  domain.SupportRequest{Name: "Ann", Priority: domain.RequestPriorityMedium, IssueType: domain.IssueTypeGeneral},
			want: "GENERAL - Support Request from Ann",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := r.Render(SupportAdmin, SupportData{Request: tt.req})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if email.Subject != tt.want {
				t.Errorf("subject = %q, want %q", email.Subject, tt.want)
			}
		})
	}
}

func TestRenderSupportUserResponseTime(t *testing.T) {
	r := newTestRenderer(t)
	req := domain.SupportRequest{Name: "Ann", Message: "Where is it?", IssueType: domain.IssueTypeDeliveryProblem, Priority: domain.RequestPriorityUrgent}

	email, err := r.Render(SupportUser, SupportData{Request: req, SupportAddress: "help@example.com"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Issue Type: Delivery Problem", "Within 2-4 hours", "Where is it?", "help@example.com"} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("body missing %q:\n%s", want, email.Body)
		}
	}
}

func TestRenderContactAdmin(t *testing.T) {
	r := newTestRenderer(t)
	tests := []struct {
		msg  domain.ContactMessage
		want string
	}{
		{
			msg:  domain.ContactMessage{Name: "Bo", Type: domain.ContactTypeComplaint, Priority: domain.RequestPriorityLow, Subject: "Late"},
			want: "COMPLAINT - COMPLAINT - Late",
		},
		{
			msg:  domain.ContactMessage{Name: "Bo", Type: domain.ContactTypeQuestion, Priority: domain.RequestPriorityUrgent},
			want: "HIGH PRIORITY - QUESTION - New Feedback from Bo",
		},
		{
			msg:  domain.ContactMessage{Name: "Bo", Type: domain.ContactTypeGeneral, Priority: domain.RequestPriorityMedium, Subject: "Hi"},
			want: "GENERAL - Hi",
		},
	}

	for _, tt := range tests {
		email, err := r.Render(ContactAdmin, ContactData{Message: tt.msg})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if email.Subject != tt.want {
			t.Errorf("subject = %q, want %q", email.Subject, tt.want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := newTestRenderer(t).Render("missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

package domain

import (
	"testing"
	"time"
)

func TestParseParcelStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    ParcelStatus
		wantErr bool
	}{
		{raw: "IN_TRANSIT", want: ParcelStatusInTransit},
		{raw: " delivered ", want: ParcelStatusDelivered},
		{raw: "out_for_delivery", want: ParcelStatusOutForDelivery},
		{raw: "", wantErr: true},
		{raw: "LOST", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseParcelStatus(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseParcelStatus(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseParcelStatus(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseParcelStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	if p, _ := ParseParcelPriority(""); p != ParcelPriorityNormal {
		t.Errorf("priority default = %q, want NORMAL", p)
	}
	if s, _ := ParseServiceType(" "); s != ServiceTypeStandard {
		t.Errorf("service type default = %q, want STANDARD", s)
	}
	if r, _ := ParseUserRole(""); r != UserRoleUser {
		t.Errorf("role default = %q, want USER", r)
	}
	if p, _ := ParseRequestPriority(""); p != RequestPriorityMedium {
		t.Errorf("request priority default = %q, want MEDIUM", p)
	}
	if it, _ := ParseIssueType(""); it != IssueTypeGeneral {
		t.Errorf("issue type default = %q, want GENERAL", it)
	}
	if _, err := ParseServiceType("teleport"); err == nil {
		t.Error("expected error for unknown service type")
	}
	if _, err := ParseSupportStatus(""); err == nil {
		t.Error("expected error for empty support status")
	}
}

func TestApplyStatusStampsDelivery(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	p := &Parcel{Status: ParcelStatusRegistered, CreatedAt: created, UpdatedAt: created}

	transit := created.Add(time.Hour)
	p.ApplyStatus(ParcelStatusInTransit, transit)
	if p.DeliveredAt != nil {
		t.Fatal("delivered at should stay nil before delivery")
	}
	if !p.UpdatedAt.Equal(transit) {
		t.Errorf("updated at = %v, want %v", p.UpdatedAt, transit)
	}

	delivered := transit.Add(time.Hour)
	p.ApplyStatus(ParcelStatusDelivered, delivered)
	if p.DeliveredAt == nil || !p.DeliveredAt.Equal(delivered) {
		t.Fatalf("delivered at = %v, want %v", p.DeliveredAt, delivered)
	}

	returned := delivered.Add(time.Hour)
	p.ApplyStatus(ParcelStatusReturned, returned)
	if p.DeliveredAt == nil || !p.DeliveredAt.Equal(delivered) {
		t.Errorf("delivered at should survive leaving DELIVERED, got %v", p.DeliveredAt)
	}
	if !p.UpdatedAt.Equal(returned) {
		t.Errorf("updated at = %v, want %v", p.UpdatedAt, returned)
	}
}

func TestIsValidParcelTransition(t *testing.T) {
	tests := []struct {
		from, to ParcelStatus
		want     bool
	}{
		{ParcelStatusRegistered, ParcelStatusInTransit, true},
		{ParcelStatusRegistered, ParcelStatusDelivered, false},
		{ParcelStatusOutForDelivery, ParcelStatusDelivered, true},
		{ParcelStatusDelivered, ParcelStatusReturned, true},
		{ParcelStatusReturned, ParcelStatusInTransit, false},
		{ParcelStatusReturned, ParcelStatusReturned, true},
	}

	for _, tt := range tests {
		if got := IsValidParcelTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("IsValidParcelTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := ParcelStatusOutForDelivery.Label(); got != "Out for Delivery (Arriving today)" {
		t.Errorf("label = %q", got)
	}
	if got := ParcelStatus("").Label(); got != "Unknown" {
		t.Errorf("empty label = %q", got)
	}
}

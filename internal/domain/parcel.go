package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParcelStatus enumerates lifecycle states for parcels.
type ParcelStatus string

const (
	ParcelStatusRegistered     ParcelStatus = "REGISTERED"
	ParcelStatusInTransit      ParcelStatus = "IN_TRANSIT"
	ParcelStatusOutForDelivery ParcelStatus = "OUT_FOR_DELIVERY"
	ParcelStatusDelivered      ParcelStatus = "DELIVERED"
	ParcelStatusReturned       ParcelStatus = "RETURNED"
)

// ParcelStatuses lists every status in lifecycle order.
var ParcelStatuses = []ParcelStatus{
	ParcelStatusRegistered,
	ParcelStatusInTransit,
	ParcelStatusOutForDelivery,
	ParcelStatusDelivered,
	ParcelStatusReturned,
}

// ParcelPriority enumerates handling urgency.
type ParcelPriority string

const (
	ParcelPriorityLow    ParcelPriority = "LOW"
	ParcelPriorityNormal ParcelPriority = "NORMAL"
	ParcelPriorityHigh   ParcelPriority = "HIGH"
	ParcelPriorityUrgent ParcelPriority = "URGENT"
)

// ServiceType enumerates delivery speed tiers.
type ServiceType string

const (
	ServiceTypeStandard  ServiceType = "STANDARD"
	ServiceTypeExpress   ServiceType = "EXPRESS"
	ServiceTypeOvernight ServiceType = "OVERNIGHT"
)

// PackageSize is an optional coarse size class.
type PackageSize string

const (
	PackageSizeSmall      PackageSize = "SMALL"
	PackageSizeMedium     PackageSize = "MEDIUM"
	PackageSizeLarge      PackageSize = "LARGE"
	PackageSizeExtraLarge PackageSize = "EXTRA_LARGE"
)

// Contact is a sender or recipient tuple.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Parcel is the aggregate tracked from registration to delivery.
type Parcel struct {
	ID                    int64
	TrackingID            string
	Sender                Contact
	Recipient             Contact
	Description           string
	Weight                string
	Dimensions            string
	Category              string
	Value                 string
	Status                ParcelStatus
	CurrentLocation       string
	Notes                 string
	Priority              ParcelPriority
	ServiceType           ServiceType
	PackageSize           PackageSize
	EstimatedDeliveryDate string
	DeliveryAttempts      int
	IsFragile             bool
	RequiresSignature     bool
	DeliveryInstructions  string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeliveredAt           *time.Time
}

// ApplyStatus moves the parcel to status at now. DeliveredAt is stamped on
// every transition into DELIVERED and is never cleared afterwards.
func (p *Parcel) ApplyStatus(status ParcelStatus, now time.Time) {
	p.Status = status
	p.UpdatedAt = now
	if status == ParcelStatusDelivered {
		delivered := now
		p.DeliveredAt = &delivered
	}
}

// InvolvesEmail reports whether email is the sender or the recipient.
func (p *Parcel) InvolvesEmail(email string) bool {
	return email == p.Sender.Email || email == p.Recipient.Email
}

// ParcelStatusChange is an immutable audit entry for a status move.
type ParcelStatusChange struct {
	ID        int64
	ParcelID  int64
	OldStatus ParcelStatus
	NewStatus ParcelStatus
	Location  string
	Notes     string
	CreatedAt time.Time
}

// AllowedParcelTransitions is the graph enforced in strict transition mode.
var AllowedParcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelStatusRegistered:     {ParcelStatusInTransit, ParcelStatusReturned},
	ParcelStatusInTransit:      {ParcelStatusOutForDelivery, ParcelStatusReturned},
	ParcelStatusOutForDelivery: {ParcelStatusDelivered, ParcelStatusInTransit, ParcelStatusReturned},
	ParcelStatusDelivered:      {ParcelStatusReturned},
	ParcelStatusReturned:       {},
}

// IsValidParcelTransition reports whether next may follow current in strict mode.
// Staying in the same status is always allowed.
func IsValidParcelTransition(current, next ParcelStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range AllowedParcelTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseParcelStatus normalizes raw and rejects unknown statuses.
func ParseParcelStatus(raw string) (ParcelStatus, error) {
	status := ParcelStatus(normalizeEnum(raw))
	for _, known := range ParcelStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid parcel status %q", raw)
}

// ParseParcelPriority normalizes raw, defaulting to NORMAL when empty.
func ParseParcelPriority(raw string) (ParcelPriority, error) {
	switch p := ParcelPriority(normalizeEnum(raw)); p {
	case "":
		return ParcelPriorityNormal, nil
	case ParcelPriorityLow, ParcelPriorityNormal, ParcelPriorityHigh, ParcelPriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("invalid parcel priority %q", raw)
}

// ParseServiceType normalizes raw, defaulting to STANDARD when empty.
func ParseServiceType(raw string) (ServiceType, error) {
	switch s := ServiceType(normalizeEnum(raw)); s {
	case "":
		return ServiceTypeStandard, nil
	case ServiceTypeStandard, ServiceTypeExpress, ServiceTypeOvernight:
		return s, nil
	}
	return "", fmt.Errorf("invalid service type %q", raw)
}

// ParsePackageSize normalizes raw. An empty size stays empty.
func ParsePackageSize(raw string) (PackageSize, error) {
	switch s := PackageSize(normalizeEnum(raw)); s {
	case "", PackageSizeSmall, PackageSizeMedium, PackageSizeLarge, PackageSizeExtraLarge:
		return s, nil
	}
	return "", fmt.Errorf("invalid package size %q", raw)
}

// Label is the human readable form used in notifications.
func (s ParcelStatus) Label() string {
	switch s {
	case ParcelStatusRegistered:
		return "Registered (Preparing for shipment)"
	case ParcelStatusInTransit:
		return "In Transit (On the way)"
	case ParcelStatusOutForDelivery:
		return "Out for Delivery (Arriving today)"
	case ParcelStatusDelivered:
		return "Delivered (Successfully completed)"
	case ParcelStatusReturned:
		return "Returned (Sent back to sender)"
	case "":
		return "Unknown"
	}
	return string(s)
}

func normalizeEnum(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

package dto

import (
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// ParcelRequest is the flat payload used by both add and update.
type ParcelRequest struct {
	SenderName            string `json:"senderName"`
	SenderEmail           string `json:"senderEmail"`
	SenderPhone           string `json:"senderPhone"`
	SenderAddress         string `json:"senderAddress"`
	RecipientName         string `json:"recipientName"`
	RecipientEmail        string `json:"recipientEmail"`
	RecipientPhone        string `json:"recipientPhone"`
	RecipientAddress      string `json:"recipientAddress"`
	Description           string `json:"description"`
	Weight                string `json:"weight"`
	Dimensions            string `json:"dimensions"`
	Category              string `json:"category"`
	Value                 string `json:"value"`
	Status                string `json:"status"`
	CurrentLocation       string `json:"currentLocation"`
	Notes                 string `json:"notes"`
	Priority              string `json:"priority"`
	ServiceType           string `json:"serviceType"`
	PackageSize           string `json:"packageSize"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
	DeliveryAttempts      int    `json:"deliveryAttempts"`
	IsFragile             bool   `json:"isFragile"`
	RequiresSignature     bool   `json:"requiresSignature"`
	DeliveryInstructions  string `json:"deliveryInstructions"`
}

// StatusUpdateRequest payload for PUT /parcels/status/:id.
type StatusUpdateRequest struct {
	Status          string `json:"status"`
	CurrentLocation string `json:"currentLocation"`
	Notes           string `json:"notes"`
}

// ParcelResponse mirrors the stored parcel with flattened contacts.
type ParcelResponse struct {
	ID                    int64                 `json:"id"`
	TrackingID            string                `json:"trackingId"`
	SenderName            string                `json:"senderName"`
	SenderEmail           string                `json:"senderEmail"`
	SenderPhone           string                `json:"senderPhone"`
	SenderAddress         string                `json:"senderAddress"`
	RecipientName         string                `json:"recipientName"`
	RecipientEmail        string                `json:"recipientEmail"`
	RecipientPhone        string                `json:"recipientPhone"`
	RecipientAddress      string                `json:"recipientAddress"`
	Description           string                `json:"description"`
	Weight                string                `json:"weight"`
	Dimensions            string                `json:"dimensions"`
	Category              string                `json:"category"`
	Value                 string                `json:"value"`
	Status                domain.ParcelStatus   `json:"status"`
	CurrentLocation       string                `json:"currentLocation"`
	Notes                 string                `json:"notes"`
	Priority              domain.ParcelPriority `json:"priority"`
	ServiceType           domain.ServiceType    `json:"serviceType"`
	PackageSize           domain.PackageSize    `json:"packageSize,omitempty"`
	EstimatedDeliveryDate string                `json:"estimatedDeliveryDate,omitempty"`
	DeliveryAttempts      int                   `json:"deliveryAttempts"`
	IsFragile             bool                  `json:"isFragile"`
	RequiresSignature     bool                  `json:"requiresSignature"`
	DeliveryInstructions  string                `json:"deliveryInstructions,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
	DeliveredAt           *time.Time            `json:"deliveredAt"`
}

// ParcelCreatedResponse is returned by POST /parcels/add.
type ParcelCreatedResponse struct {
	Message    string         `json:"message"`
	TrackingID string         `json:"trackingId"`
	Parcel     ParcelResponse `json:"parcel"`
}

// StatusChangeResponse is one entry of a parcel's status trail.
type StatusChangeResponse struct {
	OldStatus domain.ParcelStatus `json:"oldStatus"`
	NewStatus domain.ParcelStatus `json:"newStatus"`
	Location  string              `json:"location,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	ChangedAt time.Time           `json:"changedAt"`
}

// Sender returns the sender contact.
func (r ParcelRequest) Sender() domain.Contact {
	return domain.Contact{Name: r.SenderName, Email: r.SenderEmail, Phone: r.SenderPhone, Address: r.SenderAddress}
}

// Recipient returns the recipient contact.
func (r ParcelRequest) Recipient() domain.Contact {
	return domain.Contact{Name: r.RecipientName, Email: r.RecipientEmail, Phone: r.RecipientPhone, Address: r.RecipientAddress}
}

// NewParcelResponse maps a domain parcel.
func NewParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:                    p.ID,
		TrackingID:            p.TrackingID,
		SenderName:            p.Sender.Name,
		SenderEmail:           p.Sender.Email,
		SenderPhone:           p.Sender.Phone,
		SenderAddress:         p.Sender.Address,
		RecipientName:         p.Recipient.Name,
		RecipientEmail:        p.Recipient.Email,
		RecipientPhone:        p.Recipient.Phone,
		RecipientAddress:      p.Recipient.Address,
		Description:           p.Description,
		Weight:                p.Weight,
		Dimensions:            p.Dimensions,
		Category:              p.Category,
		Value:                 p.Value,
		Status:                p.Status,
		CurrentLocation:       p.CurrentLocation,
		Notes:                 p.Notes,
		Priority:              p.Priority,
		ServiceType:           p.ServiceType,
		PackageSize:           p.PackageSize,
		EstimatedDeliveryDate: p.EstimatedDeliveryDate,
		DeliveryAttempts:      p.DeliveryAttempts,
		IsFragile:             p.IsFragile,
		RequiresSignature:     p.RequiresSignature,
		DeliveryInstructions:  p.DeliveryInstructions,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		DeliveredAt:           p.DeliveredAt,
	}
}

// NewParcelList maps a slice, never returning nil.
func NewParcelList(parcels []domain.Parcel) []ParcelResponse {
	items := make([]ParcelResponse, 0, len(parcels))
	for i := range parcels {
		items = append(items, NewParcelResponse(&parcels[i]))
	}
	return items
}

// NewStatusChangeList maps a status trail.
func NewStatusChangeList(changes []domain.ParcelStatusChange) []StatusChangeResponse {
	items := make([]StatusChangeResponse, 0, len(changes))
	for _, c := range changes {
		items = append(items, StatusChangeResponse{
			OldStatus: c.OldStatus,
			NewStatus: c.NewStatus,
			Location:  c.Location,
			Notes:     c.Notes,
			ChangedAt: c.CreatedAt,
		})
	}
	return items
}

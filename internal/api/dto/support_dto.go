package dto

import (
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// SupportRequestPayload is a support ticket submission.
type SupportRequestPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	IssueType  string `json:"issueType"`
	Priority   string `json:"priority"`
	TrackingID string `json:"trackingId"`
}

// SupportStatusRequest payload for the admin status endpoint.
type SupportStatusRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"adminResponse"`
}

// SupportSubmittedResponse is returned by POST /support/submit.
type SupportSubmittedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// SupportResponse is a stored ticket.
type SupportResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone,omitempty"`
	Subject       string                 `json:"subject,omitempty"`
	Message       string                 `json:"message"`
	IssueType     domain.IssueType       `json:"issueType"`
	Priority      domain.RequestPriority `json:"priority"`
	TrackingID    string                 `json:"trackingId,omitempty"`
	Status        domain.SupportStatus   `json:"status"`
	AdminResponse string                 `json:"adminResponse,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	ResolvedAt    *time.Time             `json:"resolvedAt"`
}

// ContactRequest is a contact form submission. It is mailed and never stored.
type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	FeedbackType string `json:"feedbackType"`
	Priority     string `json:"priority"`
}

// NewSupportList maps support tickets.
func NewSupportList(requests []domain.SupportRequest) []SupportResponse {
	items := make([]SupportResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, SupportResponse{
			ID:            r.ID,
			Name:          r.Name,
			Email:         r.Email,
			Phone:         r.Phone,
			Subject:       r.Subject,
			Message:       r.Message,
			IssueType:     r.IssueType,
			Priority:      r.Priority,
			TrackingID:    r.TrackingID,
			Status:        r.Status,
			AdminResponse: r.AdminResponse,
			CreatedAt:     r.CreatedAt,
			ResolvedAt:    r.ResolvedAt,
		})
	}
	return items
}

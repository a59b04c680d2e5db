package domain

import (
	"fmt"
	"time"
)

// SupportStatus enumerates lifecycle states of a support ticket.
type SupportStatus string

const (
	SupportStatusOpen       SupportStatus = "OPEN"
	SupportStatusInProgress SupportStatus = "IN_PROGRESS"
	SupportStatusResolved   SupportStatus = "RESOLVED"
	SupportStatusClosed     SupportStatus = "CLOSED"
)

// IsTerminal reports statuses that stamp ResolvedAt.
func (s SupportStatus) IsTerminal() bool {
	return s == SupportStatusResolved || s == SupportStatusClosed
}

// ParseSupportStatus is case-insensitive and rejects unknown statuses.
func ParseSupportStatus(raw string) (SupportStatus, error) {
	switch s := SupportStatus(normalizeEnum(raw)); s {
	case SupportStatusOpen, SupportStatusInProgress, SupportStatusResolved, SupportStatusClosed:
		return s, nil
	}
	return "", fmt.Errorf("invalid support status %q", raw)
}

// IssueType classifies a support ticket.
type IssueType string

const (
	IssueTypeGeneral         IssueType = "GENERAL"
	IssueTypeTrackingIssue   IssueType = "TRACKING_ISSUE"
	IssueTypeDeliveryProblem IssueType = "DELIVERY_PROBLEM"
	IssueTypeBillingQuestion IssueType = "BILLING_QUESTION"
	IssueTypeTechnicalIssue  IssueType = "TECHNICAL_ISSUE"
	IssueTypeAccountHelp     IssueType = "ACCOUNT_HELP"
	IssueTypeComplaint       IssueType = "COMPLAINT"
	IssueTypeSuggestion      IssueType = "SUGGESTION"
	IssueTypeOther           IssueType = "OTHER"
)

// ParseIssueType normalizes raw, defaulting to GENERAL when empty.
func ParseIssueType(raw string) (IssueType, error) {
	switch t := IssueType(normalizeEnum(raw)); t {
	case "":
		return IssueTypeGeneral, nil
	case IssueTypeGeneral, IssueTypeTrackingIssue, IssueTypeDeliveryProblem, IssueTypeBillingQuestion,
		IssueTypeTechnicalIssue, IssueTypeAccountHelp, IssueTypeComplaint, IssueTypeSuggestion, IssueTypeOther:
		return t, nil
	}
	return "", fmt.Errorf("invalid issue type %q", raw)
}

// Label is the human readable form used in notifications.
func (t IssueType) Label() string {
	switch t {
	case IssueTypeTrackingIssue:
		return "Tracking Issue"
	case IssueTypeDeliveryProblem:
		return "Delivery Problem"
	case IssueTypeBillingQuestion:
		return "Billing Question"
	case IssueTypeTechnicalIssue:
		return "Technical Issue"
	case IssueTypeAccountHelp:
		return "Account Help"
	case IssueTypeComplaint:
		return "Complaint"
	case IssueTypeSuggestion:
		return "Suggestion"
	case IssueTypeOther:
		return "Other"
	}
	return "General"
}

// RequestPriority enumerates urgency for support tickets and contact messages.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "LOW"
	RequestPriorityMedium RequestPriority = "MEDIUM"
	RequestPriorityHigh   RequestPriority = "HIGH"
	RequestPriorityUrgent RequestPriority = "URGENT"
)

// ParseRequestPriority normalizes raw, defaulting to MEDIUM when empty.
func ParseRequestPriority(raw string) (RequestPriority, error) {
	switch p := RequestPriority(normalizeEnum(raw)); p {
	case "":
		return RequestPriorityMedium, nil
	case RequestPriorityLow, RequestPriorityMedium, RequestPriorityHigh, RequestPriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q", raw)
}

// SupportRequest is a ticket filed by a customer.
type SupportRequest struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	Subject       string
	Message       string
	IssueType     IssueType
	Priority      RequestPriority
	TrackingID    string
	Status        SupportStatus
	AdminResponse string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// IsUrgent reports tickets promised a faster response.
func (r SupportRequest) IsUrgent() bool {
	return r.Priority == RequestPriorityHigh || r.Priority == RequestPriorityUrgent
}

package domain

import "fmt"

// ContactType classifies a contact form message.
type ContactType string

const (
	ContactTypeGeneral        ContactType = "GENERAL"
	ContactTypeComplaint      ContactType = "COMPLAINT"
	ContactTypeSuggestion     ContactType = "SUGGESTION"
	ContactTypeCompliment     ContactType = "COMPLIMENT"
	ContactTypeQuestion       ContactType = "QUESTION"
	ContactTypeBugReport      ContactType = "BUG_REPORT"
	ContactTypeFeatureRequest ContactType = "FEATURE_REQUEST"
)

// ParseContactType normalizes raw, defaulting to GENERAL when empty.
func ParseContactType(raw string) (ContactType, error) {
	switch t := ContactType(normalizeEnum(raw)); t {
	case "":
		return ContactTypeGeneral, nil
	case ContactTypeGeneral, ContactTypeComplaint, ContactTypeSuggestion, ContactTypeCompliment,
		ContactTypeQuestion, ContactTypeBugReport, ContactTypeFeatureRequest:
		return t, nil
	}
	return "", fmt.Errorf("invalid feedback type %q", raw)
}

// ContactMessage is a contact form submission. It is mailed, never stored.
type ContactMessage struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Type     ContactType
	Priority RequestPriority
}

// IsHighPriority reports messages that should be flagged in the subject line.
func (m ContactMessage) IsHighPriority() bool {
	return m.Priority == RequestPriorityHigh || m.Priority == RequestPriorityUrgent
}

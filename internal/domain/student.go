package domain

import "time"

// Student represents a student record owned by one tenant.
type Student struct {
	ID        string
	TenantID  string
	Email     string
	Name      string
	StudentID string
	Phone     string
	Notes     string
	SISURL    string
	CreatedAt time.Time
}

// StudentEventType represents a kind of timeline entry
type StudentEventType string

const (
	EventTypeNote          StudentEventType = "note"
	EventTypePhoneCall     StudentEventType = "phone_call"
	EventTypeWalkIn        StudentEventType = "walk_in"
	EventTypeAIRouted      StudentEventType = "ai_routed"
	EventTypeSentEmail     StudentEventType = "sent_email"
	EventTypeReceivedEmail StudentEventType = "received_email"
)

// StudentEvent is an append-only timeline entry for a student.
type StudentEvent struct {
	ID        string
	TenantID  string
	StudentID string
	TicketID  string
	EventType StudentEventType
	Content   string
	CreatedBy string
	CreatedAt time.Time
}

// IsValidStudentEventType checks if a StudentEventType is valid
func IsValidStudentEventType(t StudentEventType) bool {
	switch t {
	case EventTypeNote, EventTypePhoneCall, EventTypeWalkIn,
		EventTypeAIRouted, EventTypeSentEmail, EventTypeReceivedEmail:
		return true
	}
	return false
}

package domain

import "time"

// SuggestionType distinguishes the two generation-backed flows
type SuggestionType string

const (
	SuggestionTypeTriage     SuggestionType = "triage"
	SuggestionTypeDraftReply SuggestionType = "draft_reply"
)

// Suggestion is the audit record persisted for every draft or triage
// invocation. InputContext and Output hold the request and result as JSON.
type Suggestion struct {
	ID           string
	TenantID     string
	TicketID     string
	Type         SuggestionType
	InputContext []byte
	Output       []byte
	Accepted     bool
	CreatedAt    time.Time
}

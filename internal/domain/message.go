package domain

import "time"

// MessageDirection indicates whether a message came from or went to a student
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "inbound"
	MessageDirectionOutbound MessageDirection = "outbound"
)

// Message is a single email in a ticket thread.
type Message struct {
	ID             string
	TenantID       string
	TicketID       string
	SenderEmail    string
	RecipientEmail string
	Subject        string
	Body           string
	Direction      MessageDirection
	ThreadID       string
	CreatedAt      time.Time
}

// IsValidMessageDirection checks if a MessageDirection is valid
func IsValidMessageDirection(d MessageDirection) bool {
	return d == MessageDirectionInbound || d == MessageDirectionOutbound
}

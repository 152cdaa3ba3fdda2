package domain

import (
	"fmt"
	"time"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority represents the urgency of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory represents the financial-aid topic of a ticket
type TicketCategory string

const (
	TicketCategoryFAFSA        TicketCategory = "fafsa"
	TicketCategoryVerification TicketCategory = "verification"
	TicketCategorySAPAppeal    TicketCategory = "sap_appeal"
	TicketCategoryBilling      TicketCategory = "billing"
	TicketCategoryGeneral      TicketCategory = "general"
)

// TicketChannel represents how an inquiry arrived
type TicketChannel string

const (
	TicketChannelEmail  TicketChannel = "email"
	TicketChannelChat   TicketChannel = "chat"
	TicketChannelPhone  TicketChannel = "phone"
	TicketChannelWalkIn TicketChannel = "walk_in"
)

// Ticket represents a student inquiry tracked by the support desk
type Ticket struct {
	ID         string
	TenantID   string
	StudentID  string
	Subject    string
	Status     TicketStatus
	Priority   TicketPriority
	Category   TicketCategory
	QueueID    string
	AssigneeID string
	Channel    TicketChannel
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateTicket validates a Ticket instance
func ValidateTicket(t *Ticket) error {
	if t == nil {
		return fmt.Errorf("ticket cannot be nil")
	}
	if t.ID == "" {
		return fmt.Errorf("ticket ID is required")
	}
	if t.TenantID == "" {
		return fmt.Errorf("ticket TenantID is required")
	}
	if t.StudentID == "" {
		return fmt.Errorf("ticket StudentID is required")
	}
	if t.Subject == "" {
		return fmt.Errorf("ticket Subject is required")
	}
	if !IsValidTicketStatus(t.Status) {
		return fmt.Errorf("ticket Status is invalid: %s", t.Status)
	}
	if !IsValidTicketPriority(t.Priority) {
		return fmt.Errorf("ticket Priority is invalid: %s", t.Priority)
	}
	if !IsValidTicketCategory(t.Category) {
		return fmt.Errorf("ticket Category is invalid: %s", t.Category)
	}
	return nil
}

// IsValidTicketStatus checks if a TicketStatus is valid
func IsValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// IsValidTicketPriority checks if a TicketPriority is valid
func IsValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsValidTicketCategory checks if a TicketCategory is valid
func IsValidTicketCategory(c TicketCategory) bool {
	switch c {
	case TicketCategoryFAFSA, TicketCategoryVerification, TicketCategorySAPAppeal,
		TicketCategoryBilling, TicketCategoryGeneral:
		return true
	}
	return false
}

// IsValidTicketChannel checks if a TicketChannel is valid
func IsValidTicketChannel(c TicketChannel) bool {
	switch c {
	case TicketChannelEmail, TicketChannelChat, TicketChannelPhone, TicketChannelWalkIn:
		return true
	}
	return false
}

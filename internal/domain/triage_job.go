package domain

import (
	"fmt"
	"time"
)

// TriageJobStatus represents the status of a queued triage job
type TriageJobStatus string

const (
	TriageJobStatusPending    TriageJobStatus = "pending"
	TriageJobStatusProcessing TriageJobStatus = "processing"
	TriageJobStatusCompleted  TriageJobStatus = "completed"
	TriageJobStatusFailed     TriageJobStatus = "failed"
)

// TriageJob is a queued request to classify a new inbound ticket in the
// background. The worker applies the resulting category and priority to the
// ticket once classification completes.
type TriageJob struct {
	ID          string
	TenantID    string
	TicketID    string
	Status      TriageJobStatus
	Retries     int
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ValidateTriageJob validates a TriageJob instance
func ValidateTriageJob(j *TriageJob) error {
	if j == nil {
		return fmt.Errorf("triage job cannot be nil")
	}
	if j.ID == "" {
		return fmt.Errorf("triage job ID is required")
	}
	if j.TenantID == "" {
		return fmt.Errorf("triage job TenantID is required")
	}
	if j.TicketID == "" {
		return fmt.Errorf("triage job TicketID is required")
	}
	if !IsValidTriageJobStatus(j.Status) {
		return fmt.Errorf("triage job Status is invalid: %s", j.Status)
	}
	return nil
}

// IsValidTriageJobStatus checks if a TriageJobStatus is valid
func IsValidTriageJobStatus(s TriageJobStatus) bool {
	switch s {
	case TriageJobStatusPending, TriageJobStatusProcessing, TriageJobStatusCompleted, TriageJobStatusFailed:
		return true
	}
	return false
}

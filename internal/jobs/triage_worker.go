package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/service"
)

const (
	// MaxRetries is the maximum number of retries for a failed job
	MaxRetries = 3

	// ClaimBatchSize bounds how many jobs one poll cycle takes
	ClaimBatchSize = 20
)

// TriageJobRepository defines the interface for triage job persistence
type TriageJobRepository interface {
	// ClaimPending atomically claims up to limit pending jobs
	ClaimPending(ctx context.Context, limit int) ([]*domain.TriageJob, error)

	// UpdateStatus updates the status of a triage job
	UpdateStatus(ctx context.Context, id string, status domain.TriageJobStatus, errMsg string) error

	// IncrementRetries increments the retry count and requeues the job
	IncrementRetries(ctx context.Context, id string) error
}

// TriageClassifier defines the classification interface
type TriageClassifier interface {
	Classify(ctx context.Context, input service.TriageInput) *domain.TriageResult
}

// TicketAccess defines the ticket operations the worker needs
type TicketAccess interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	ApplyTriage(ctx context.Context, tenantID, ticketID string, result *domain.TriageResult) (*domain.Ticket, error)
	ListMessages(ctx context.Context, tenantID, ticketID string) ([]*domain.Message, error)
}

// TriageWorker classifies newly opened tickets in the background
type TriageWorker struct {
	repo       TriageJobRepository
	classifier TriageClassifier
	tickets    TicketAccess
}

// NewTriageWorker creates a new TriageWorker instance
func NewTriageWorker(repo TriageJobRepository, classifier TriageClassifier, tickets TicketAccess) *TriageWorker {
	return &TriageWorker{
		repo:       repo,
		classifier: classifier,
		tickets:    tickets,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *TriageWorker) ProcessJobs(ctx context.Context) error {
	jobs, err := w.repo.ClaimPending(ctx, ClaimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending triage jobs", len(jobs))

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}

	return nil
}

func (w *TriageWorker) processJob(ctx context.Context, job *domain.TriageJob) error {
	ticket, err := w.tickets.GetByID(ctx, job.TenantID, job.TicketID)
	if err != nil {
		// A deleted ticket makes the job permanently unprocessable.
		if errors.Is(err, domain.ErrTicketNotFound) {
			return w.repo.UpdateStatus(ctx, job.ID, domain.TriageJobStatusFailed, "ticket no longer exists")
		}
		return w.handleJobFailure(ctx, job, err)
	}

	text, err := w.classificationText(ctx, ticket)
	if err != nil {
		return w.handleJobFailure(ctx, job, err)
	}

	result := w.classifier.Classify(ctx, service.TriageInput{
		TenantID: job.TenantID,
		TicketID: job.TicketID,
		Text:     text,
	})

	// The fallback means the generation service was unreachable or returned
	// garbage; requeue so a later cycle can produce a real classification.
	if result.Fallback {
		return w.handleJobFailure(ctx, job, fmt.Errorf("classification fell back: %s", result.Reasoning))
	}

	if _, err := w.tickets.ApplyTriage(ctx, job.TenantID, job.TicketID, result); err != nil {
		return w.handleJobFailure(ctx, job, err)
	}

	if err := w.repo.UpdateStatus(ctx, job.ID, domain.TriageJobStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	log.Printf("Job %s completed: ticket %s classified as %s/%s", job.ID, job.TicketID, result.Category, result.Priority)
	return nil
}

// classificationText picks the text handed to the classifier: the first
// inbound message, or the subject for tickets opened without a body.
func (w *TriageWorker) classificationText(ctx context.Context, ticket *domain.Ticket) (string, error) {
	messages, err := w.tickets.ListMessages(ctx, ticket.TenantID, ticket.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load ticket messages: %w", err)
	}

	for _, m := range messages {
		if m.Direction == domain.MessageDirectionInbound {
			return m.Body, nil
		}
	}
	return ticket.Subject, nil
}

// handleJobFailure handles a failed job with retry logic
func (w *TriageWorker) handleJobFailure(ctx context.Context, job *domain.TriageJob, jobErr error) error {
	log.Printf("Job %s failed: %v", job.ID, jobErr)

	if job.Retries+1 >= MaxRetries {
		// The ticket keeps its general/medium intake defaults, which match
		// the classification fallback.
		log.Printf("Job %s exceeded max retries (%d), marking as failed", job.ID, MaxRetries)
		errMsg := fmt.Sprintf("max retries exceeded: %v", jobErr)
		if err := w.repo.UpdateStatus(ctx, job.ID, domain.TriageJobStatusFailed, errMsg); err != nil {
			return fmt.Errorf("failed to update job status to failed: %w", err)
		}
		return nil
	}

	log.Printf("Job %s will be retried (attempt %d/%d)", job.ID, job.Retries+1, MaxRetries)
	if err := w.repo.IncrementRetries(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to increment retries: %w", err)
	}

	return nil
}

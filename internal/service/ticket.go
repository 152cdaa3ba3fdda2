package service

import (
	"context"
	"time"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/pagination"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// TicketRepositoryInterface defines the repository interface for ticket persistence
type TicketRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	ListWithCursor(ctx context.Context, tenantID string, status domain.TicketStatus, cursor *pagination.Cursor, limit int) (*TicketPageResult, error)
	Update(ctx context.Context, t *domain.Ticket) error
}

// MessageRepositoryInterface defines the repository interface for message persistence
type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByTicket(ctx context.Context, tenantID, ticketID string) ([]*domain.Message, error)
}

// TriageJobRepositoryInterface defines the repository interface for triage job persistence
type TriageJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.TriageJob) error
}

type TicketPageResult struct {
	Items      []*domain.Ticket
	NextCursor string
	HasMore    bool
}

// TicketService handles business logic for tickets and their message threads
type TicketService struct {
	ticketRepo    TicketRepositoryInterface
	messageRepo   MessageRepositoryInterface
	triageJobRepo TriageJobRepositoryInterface
	txRunner      TxRunner
	uuidGen       UUIDGenerator
}

// NewTicketService creates a new TicketService instance
func NewTicketService(
	ticketRepo TicketRepositoryInterface,
	messageRepo MessageRepositoryInterface,
	triageJobRepo TriageJobRepositoryInterface,
) *TicketService {
	return &TicketService{
		ticketRepo:    ticketRepo,
		messageRepo:   messageRepo,
		triageJobRepo: triageJobRepo,
		uuidGen:       &DefaultUUIDGenerator{},
	}
}

// NewTicketServiceWithTx creates a TicketService that opens tickets
// transactionally so the ticket, its first message, and the triage job commit
// or roll back together.
func NewTicketServiceWithTx(
	ticketRepo TicketRepositoryInterface,
	messageRepo MessageRepositoryInterface,
	triageJobRepo TriageJobRepositoryInterface,
	txRunner TxRunner,
) *TicketService {
	return &TicketService{
		ticketRepo:    ticketRepo,
		messageRepo:   messageRepo,
		triageJobRepo: triageJobRepo,
		txRunner:      txRunner,
		uuidGen:       &DefaultUUIDGenerator{},
	}
}

// NewTicketServiceWithUUIDGen creates a new TicketService with custom UUID generator (for testing)
func NewTicketServiceWithUUIDGen(
	ticketRepo TicketRepositoryInterface,
	messageRepo MessageRepositoryInterface,
	triageJobRepo TriageJobRepositoryInterface,
	uuidGen UUIDGenerator,
) *TicketService {
	return &TicketService{
		ticketRepo:    ticketRepo,
		messageRepo:   messageRepo,
		triageJobRepo: triageJobRepo,
		uuidGen:       uuidGen,
	}
}

// CreateTicketInput represents the input for opening a ticket
type CreateTicketInput struct {
	TenantID    string
	StudentID   string
	Subject     string
	Body        string
	SenderEmail string
	Channel     domain.TicketChannel
}

// UpdateTicketInput represents the input for mutating a ticket. Empty fields
// are left unchanged.
type UpdateTicketInput struct {
	TenantID   string
	TicketID   string
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
	Category   domain.TicketCategory
	AssigneeID string
	QueueID    string
}

// AddMessageInput represents the input for appending to a ticket thread
type AddMessageInput struct {
	TenantID       string
	TicketID       string
	SenderEmail    string
	RecipientEmail string
	Subject        string
	Body           string
	Direction      domain.MessageDirection
}

type ListTicketsInput struct {
	TenantID string
	Status   domain.TicketStatus
	Cursor   string
	Limit    int
}

type ListTicketsOutput struct {
	Items   []*domain.Ticket
	Cursor  string
	HasMore bool
}

// Create opens a ticket with its first inbound message and queues a triage
// job. New tickets start open with the general/medium defaults until triage
// classifies them.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.Create", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		StudentID: input.StudentID,
		Operation: "create",
	})
	defer span.End()

	now := time.Now().UTC()
	ticketID := s.uuidGen.NewString()

	channel := input.Channel
	if channel == "" {
		channel = domain.TicketChannelEmail
	}

	ticket := &domain.Ticket{
		ID:        ticketID,
		TenantID:  input.TenantID,
		StudentID: input.StudentID,
		Subject:   input.Subject,
		Status:    domain.TicketStatusOpen,
		Priority:  domain.TicketPriorityMedium,
		Category:  domain.TicketCategoryGeneral,
		Channel:   channel,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidateTicket(ticket); err != nil {
		return nil, err
	}

	var message *domain.Message
	if input.Body != "" {
		message = &domain.Message{
			ID:          s.uuidGen.NewString(),
			TenantID:    input.TenantID,
			TicketID:    ticketID,
			SenderEmail: input.SenderEmail,
			Subject:     input.Subject,
			Body:        input.Body,
			Direction:   domain.MessageDirectionInbound,
			ThreadID:    ticketID,
			CreatedAt:   now,
		}
	}

	job := &domain.TriageJob{
		ID:        s.uuidGen.NewString(),
		TenantID:  input.TenantID,
		TicketID:  ticketID,
		Status:    domain.TriageJobStatusPending,
		Retries:   0,
		Error:     "",
		CreatedAt: now,
	}

	persist := func(tickets TicketRepositoryInterface, messages MessageRepositoryInterface, jobs TriageJobRepositoryInterface) error {
		if err := tickets.Create(ctx, ticket); err != nil {
			return err
		}
		if message != nil {
			if err := messages.Create(ctx, message); err != nil {
				return err
			}
		}
		return jobs.Create(ctx, job)
	}

	if s.txRunner != nil {
		err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
			return persist(repos.Tickets(), repos.Messages(), repos.TriageJobs())
		})
		if err != nil {
			return nil, err
		}
		return ticket, nil
	}

	if err := persist(s.ticketRepo, s.messageRepo, s.triageJobRepo); err != nil {
		return nil, err
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (s *TicketService) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, tenantID, id)
}

// List retrieves a page of the tenant's tickets, newest first
func (s *TicketService) List(ctx context.Context, input ListTicketsInput) (*ListTicketsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.List", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "list",
	})
	defer span.End()

	if input.Status != "" && !domain.IsValidTicketStatus(input.Status) {
		return nil, domain.ErrInvalidTicketStatus
	}

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.ticketRepo.ListWithCursor(ctx, input.TenantID, input.Status, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListTicketsOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}

// Update mutates the workflow fields of a ticket. Empty inputs leave the
// corresponding field unchanged.
func (s *TicketService) Update(ctx context.Context, input UpdateTicketInput) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.Update", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		TicketID:  input.TicketID,
		Operation: "update",
	})
	defer span.End()

	ticket, err := s.ticketRepo.GetByID(ctx, input.TenantID, input.TicketID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		if !domain.IsValidTicketStatus(input.Status) {
			return nil, domain.ErrInvalidTicketStatus
		}
		ticket.Status = input.Status
	}
	if input.Priority != "" {
		if !domain.IsValidTicketPriority(input.Priority) {
			return nil, domain.ErrInvalidTicketPriority
		}
		ticket.Priority = input.Priority
	}
	if input.Category != "" {
		if !domain.IsValidTicketCategory(input.Category) {
			return nil, domain.ErrInvalidTicketCategory
		}
		ticket.Category = input.Category
	}
	if input.AssigneeID != "" {
		ticket.AssigneeID = input.AssigneeID
	}
	if input.QueueID != "" {
		ticket.QueueID = input.QueueID
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

// ApplyTriage writes a triage classification onto a ticket. Fallback results
// are applied as-is: general/medium is a usable classification, not an error.
func (s *TicketService) ApplyTriage(ctx context.Context, tenantID, ticketID string, result *domain.TriageResult) (*domain.Ticket, error) {
	return s.Update(ctx, UpdateTicketInput{
		TenantID: tenantID,
		TicketID: ticketID,
		Category: result.Category,
		Priority: result.Priority,
	})
}

// AddMessage appends a message to a ticket thread
func (s *TicketService) AddMessage(ctx context.Context, input AddMessageInput) (*domain.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "TicketService.AddMessage", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		TicketID:  input.TicketID,
		Operation: "create",
	})
	defer span.End()

	if !domain.IsValidMessageDirection(input.Direction) {
		return nil, domain.ErrInvalidMessageDirection
	}

	ticket, err := s.ticketRepo.GetByID(ctx, input.TenantID, input.TicketID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:             s.uuidGen.NewString(),
		TenantID:       input.TenantID,
		TicketID:       ticket.ID,
		SenderEmail:    input.SenderEmail,
		RecipientEmail: input.RecipientEmail,
		Subject:        input.Subject,
		Body:           input.Body,
		Direction:      input.Direction,
		ThreadID:       ticket.ID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	ticket.UpdatedAt = message.CreatedAt
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	return message, nil
}

// ListMessages retrieves the full thread for a ticket, oldest first
func (s *TicketService) ListMessages(ctx context.Context, tenantID, ticketID string) ([]*domain.Message, error) {
	return s.messageRepo.ListByTicket(ctx, tenantID, ticketID)
}

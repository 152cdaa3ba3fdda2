package service

import (
	"context"
	"time"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// StudentRepositoryInterface defines the repository interface for student persistence
type StudentRepositoryInterface interface {
	Create(ctx context.Context, st *domain.Student) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, tenantID, email string) (*domain.Student, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Student, error)
	Update(ctx context.Context, st *domain.Student) error
}

// StudentEventRepositoryInterface defines the repository interface for student event persistence
type StudentEventRepositoryInterface interface {
	Create(ctx context.Context, ev *domain.StudentEvent) error
	ListByStudent(ctx context.Context, tenantID, studentID string) ([]*domain.StudentEvent, error)
}

// StudentService handles business logic for students and their activity timeline
type StudentService struct {
	studentRepo StudentRepositoryInterface
	eventRepo   StudentEventRepositoryInterface
	uuidGen     UUIDGenerator
}

// NewStudentService creates a new StudentService instance
func NewStudentService(studentRepo StudentRepositoryInterface, eventRepo StudentEventRepositoryInterface) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		eventRepo:   eventRepo,
		uuidGen:     &DefaultUUIDGenerator{},
	}
}

// NewStudentServiceWithUUIDGen creates a new StudentService with custom UUID generator (for testing)
func NewStudentServiceWithUUIDGen(
	studentRepo StudentRepositoryInterface,
	eventRepo StudentEventRepositoryInterface,
	uuidGen UUIDGenerator,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		eventRepo:   eventRepo,
		uuidGen:     uuidGen,
	}
}

// CreateStudentInput represents the input for registering a student
type CreateStudentInput struct {
	TenantID  string
	Email     string
	Name      string
	StudentID string
	Phone     string
	Notes     string
	SISURL    string
}

// UpdateStudentInput represents the input for updating a student record
type UpdateStudentInput struct {
	TenantID string
	ID       string
	Name     string
	Phone    string
	Notes    string
	SISURL   string
}

// RecordEventInput represents the input for appending to a student's timeline
type RecordEventInput struct {
	TenantID  string
	StudentID string
	TicketID  string
	EventType domain.StudentEventType
	Content   string
	CreatedBy string
}

// Create registers a new student
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*domain.Student, error) {
	ctx, span := telemetry.StartSpan(ctx, "StudentService.Create", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "create",
	})
	defer span.End()

	if input.Email == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "student email is required")
	}
	if input.Name == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "student name is required")
	}

	student := &domain.Student{
		ID:        s.uuidGen.NewString(),
		TenantID:  input.TenantID,
		Email:     input.Email,
		Name:      input.Name,
		StudentID: input.StudentID,
		Phone:     input.Phone,
		Notes:     input.Notes,
		SISURL:    input.SISURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// GetByID retrieves a student by ID
func (s *StudentService) GetByID(ctx context.Context, tenantID, id string) (*domain.Student, error) {
	return s.studentRepo.GetByID(ctx, tenantID, id)
}

// GetByEmail retrieves a student by email address
func (s *StudentService) GetByEmail(ctx context.Context, tenantID, email string) (*domain.Student, error) {
	return s.studentRepo.GetByEmail(ctx, tenantID, email)
}

// List retrieves all students for a tenant
func (s *StudentService) List(ctx context.Context, tenantID string) ([]*domain.Student, error) {
	return s.studentRepo.ListByTenant(ctx, tenantID)
}

// Update replaces the mutable fields of a student record. Empty inputs leave
// the corresponding field unchanged.
func (s *StudentService) Update(ctx context.Context, input UpdateStudentInput) (*domain.Student, error) {
	ctx, span := telemetry.StartSpan(ctx, "StudentService.Update", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		StudentID: input.ID,
		Operation: "update",
	})
	defer span.End()

	student, err := s.studentRepo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		student.Name = input.Name
	}
	if input.Phone != "" {
		student.Phone = input.Phone
	}
	if input.Notes != "" {
		student.Notes = input.Notes
	}
	if input.SISURL != "" {
		student.SISURL = input.SISURL
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// RecordEvent appends an event to a student's activity timeline
func (s *StudentService) RecordEvent(ctx context.Context, input RecordEventInput) (*domain.StudentEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "StudentService.RecordEvent", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		StudentID: input.StudentID,
		Operation: "create",
	})
	defer span.End()

	if !domain.IsValidStudentEventType(input.EventType) {
		return nil, domain.ErrInvalidEventType
	}

	if _, err := s.studentRepo.GetByID(ctx, input.TenantID, input.StudentID); err != nil {
		return nil, err
	}

	event := &domain.StudentEvent{
		ID:        s.uuidGen.NewString(),
		TenantID:  input.TenantID,
		StudentID: input.StudentID,
		TicketID:  input.TicketID,
		EventType: input.EventType,
		Content:   input.Content,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// ListEvents retrieves a student's activity timeline, newest first
func (s *StudentService) ListEvents(ctx context.Context, tenantID, studentID string) ([]*domain.StudentEvent, error) {
	return s.eventRepo.ListByStudent(ctx, tenantID, studentID)
}

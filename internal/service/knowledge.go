package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// KnowledgeRepositoryInterface defines the repository interface for knowledge persistence
type KnowledgeRepositoryInterface interface {
	Create(ctx context.Context, doc *domain.KnowledgeDocument) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.KnowledgeDocument, error)
	ListByTenant(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error)
	Update(ctx context.Context, doc *domain.KnowledgeDocument) error
	Delete(ctx context.Context, tenantID, id string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// KnowledgeService handles business logic for knowledge documents
type KnowledgeService struct {
	repo    KnowledgeRepositoryInterface
	uuidGen UUIDGenerator
}

// NewKnowledgeService creates a new KnowledgeService instance
func NewKnowledgeService(repo KnowledgeRepositoryInterface) *KnowledgeService {
	return &KnowledgeService{repo: repo, uuidGen: &DefaultUUIDGenerator{}}
}

// NewKnowledgeServiceWithUUIDGen creates a new KnowledgeService with custom UUID generator (for testing)
func NewKnowledgeServiceWithUUIDGen(repo KnowledgeRepositoryInterface, uuidGen UUIDGenerator) *KnowledgeService {
	return &KnowledgeService{repo: repo, uuidGen: uuidGen}
}

// CreateKnowledgeInput represents the input for creating a knowledge document
type CreateKnowledgeInput struct {
	TenantID   string
	Title      string
	Content    string
	Category   domain.KnowledgeCategory
	Searchable bool
	Tags       []string
}

// UpdateKnowledgeInput represents the input for updating a knowledge document
type UpdateKnowledgeInput struct {
	TenantID   string
	ID         string
	Title      string
	Content    string
	Category   domain.KnowledgeCategory
	Searchable bool
	Tags       []string
}

// Create creates a new knowledge document
func (s *KnowledgeService) Create(ctx context.Context, input CreateKnowledgeInput) (*domain.KnowledgeDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Create", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "create",
	})
	defer span.End()

	now := time.Now().UTC()
	doc := &domain.KnowledgeDocument{
		ID:         s.uuidGen.NewString(),
		TenantID:   input.TenantID,
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		Searchable: input.Searchable,
		Tags:       input.Tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := domain.ValidateKnowledgeDocument(doc); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// GetByID retrieves a knowledge document by ID
func (s *KnowledgeService) GetByID(ctx context.Context, tenantID, id string) (*domain.KnowledgeDocument, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// List retrieves a tenant's knowledge documents, optionally filtered by category
func (s *KnowledgeService) List(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error) {
	if category != "" && !domain.IsValidKnowledgeCategory(category) {
		return nil, domain.ErrInvalidKnowledgeCategory
	}
	return s.repo.ListByTenant(ctx, tenantID, category)
}

// Update replaces the mutable fields of a knowledge document
func (s *KnowledgeService) Update(ctx context.Context, input UpdateKnowledgeInput) (*domain.KnowledgeDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Update", telemetry.SpanAttributes{
		TenantID:    input.TenantID,
		KnowledgeID: input.ID,
		Operation:   "update",
	})
	defer span.End()

	doc, err := s.repo.GetByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	doc.Title = input.Title
	doc.Content = input.Content
	doc.Category = input.Category
	doc.Searchable = input.Searchable
	doc.Tags = input.Tags
	doc.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateKnowledgeDocument(doc); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete removes a knowledge document
func (s *KnowledgeService) Delete(ctx context.Context, tenantID, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Delete", telemetry.SpanAttributes{
		TenantID:    tenantID,
		KnowledgeID: id,
		Operation:   "delete",
	})
	defer span.End()

	return s.repo.Delete(ctx, tenantID, id)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/redact"
)

// MockKnowledgeSearcher is a mock for KnowledgeSearcher
type MockKnowledgeSearcher struct {
	mock.Mock
}

func (m *MockKnowledgeSearcher) Search(ctx context.Context, input SearchInput) ([]*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeDocument), args.Error(1)
}

// MockGenerationClient is a mock for GenerationClient
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) Complete(ctx context.Context, system, user, sessionID string) (string, error) {
	args := m.Called(ctx, system, user, sessionID)
	return args.String(0), args.Error(1)
}

// MockSuggestionRepository is a mock for SuggestionRepositoryInterface
type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSuggestionRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]*domain.Suggestion, error) {
	args := m.Called(ctx, tenantID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) MarkAccepted(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockUUIDGenerator is a mock UUID generator returning fixed values
type MockUUIDGenerator struct {
	mock.Mock
}

func (m *MockUUIDGenerator) NewString() string {
	args := m.Called()
	return args.String(0)
}

func newDraftFixture() (*MockKnowledgeSearcher, *MockGenerationClient, *MockSuggestionRepository, *DraftService) {
	searcher := new(MockKnowledgeSearcher)
	generator := new(MockGenerationClient)
	suggestions := new(MockSuggestionRepository)
	uuidGen := new(MockUUIDGenerator)
	uuidGen.On("NewString").Return("fixed-uuid")

	svc := NewDraftServiceWithUUIDGen(searcher, redact.NewRedactor(), generator, suggestions, uuidGen)
	return searcher, generator, suggestions, svc
}

func TestDraftService_Draft_Success(t *testing.T) {
	searcher, generator, suggestions, svc := newDraftFixture()

	docs := []*domain.KnowledgeDocument{
		{ID: "k1", Title: "FAFSA Deadlines", Category: domain.KnowledgeCategoryFAFSA, Content: strings.Repeat("deadline info ", 30)},
		{ID: "k2", Title: "Verification Steps", Category: domain.KnowledgeCategoryVerification, Content: "short doc"},
	}
	searcher.On("Search", mock.Anything, SearchInput{
		TenantID: "tenant-1",
		Query:    "When is the FAFSA deadline?",
		Limit:    3,
	}).Return(docs, nil)

	generator.On("Complete", mock.Anything, draftSystemPrompt, mock.Anything, "draft_ticket-9").
		Return(`{"summary":"Deadline question","reasoning":"Needs dates","reply":"The priority deadline is March 1."}`, nil)

	suggestions.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-9",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: "When is the FAFSA deadline?",
	})

	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, "Deadline question", result.Summary)
	assert.Equal(t, "Needs dates", result.Reasoning)
	assert.Equal(t, "The priority deadline is March 1.", result.ReplyBody)
	assert.Equal(t, "The priority deadline is March 1."+domain.DisclaimerText, result.FinalReply)
	assert.True(t, strings.HasSuffix(result.FinalReply, domain.DisclaimerText))

	require.Len(t, result.CitedDocuments, 2)
	assert.Equal(t, "FAFSA Deadlines", result.CitedDocuments[0].Title)
	assert.True(t, strings.HasSuffix(result.CitedDocuments[0].Excerpt, "..."))

	searcher.AssertExpectations(t)
	generator.AssertExpectations(t)
	suggestions.AssertExpectations(t)
}

func TestDraftService_Draft_MasksSensitiveData(t *testing.T) {
	searcher, generator, suggestions, svc := newDraftFixture()

	message := "My SSN is 123-45-6789 and student ID 1234567, when is the FAFSA deadline?"

	// Retrieval sees the original query, generation only the masked form
	searcher.On("Search", mock.Anything, mock.MatchedBy(func(in SearchInput) bool {
		return in.Query == message
	})).Return([]*domain.KnowledgeDocument{}, nil)

	generator.On("Complete", mock.Anything, draftSystemPrompt, mock.MatchedBy(func(user string) bool {
		return !strings.Contains(user, "123-45-6789") && !strings.Contains(user, "1234567")
	}), "draft_ticket-1").Return(`{"summary":"s","reasoning":"r","reply":"ok"}`, nil)

	suggestions.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-1",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: message,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.RedactionReport["ssn"])
	assert.GreaterOrEqual(t, result.RedactionReport["student_id"], 1)
	generator.AssertExpectations(t)
}

func TestDraftService_Draft_DegradesOnMalformedOutput(t *testing.T) {
	searcher, generator, suggestions, svc := newDraftFixture()

	searcher.On("Search", mock.Anything, mock.Anything).Return([]*domain.KnowledgeDocument{}, nil)

	raw := "Sorry, I can only answer in plain text: the deadline is March 1."
	generator.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)
	suggestions.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-1",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: "When is the deadline?",
	})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, raw, result.ReplyBody)
	assert.Equal(t, raw+domain.DisclaimerText, result.FinalReply)
}

func TestDraftService_Draft_GenerationFailure(t *testing.T) {
	searcher, generator, _, svc := newDraftFixture()

	searcher.On("Search", mock.Anything, mock.Anything).Return([]*domain.KnowledgeDocument{}, nil)

	upstream := errors.New("connection reset")
	generator.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", upstream)

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-1",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: "When is the deadline?",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUpstream, domainErr.Code)
	assert.ErrorIs(t, err, upstream)
}

func TestDraftService_Draft_EmptyKnowledgeBase(t *testing.T) {
	searcher, generator, suggestions, svc := newDraftFixture()

	searcher.On("Search", mock.Anything, mock.Anything).Return([]*domain.KnowledgeDocument{}, nil)
	generator.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"summary":"s","reasoning":"r","reply":"We can still help."}`, nil)
	suggestions.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-1",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: "Can you help me?",
	})

	require.NoError(t, err)
	assert.Empty(t, result.CitedDocuments)
	assert.True(t, strings.HasSuffix(result.FinalReply, domain.DisclaimerText))
}

func TestDraftService_Draft_EmptyMessage(t *testing.T) {
	searcher, _, _, svc := newDraftFixture()

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID: "tenant-1",
		TicketID: "ticket-1",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	searcher.AssertNotCalled(t, "Search")
}

func TestDraftService_Draft_AuditWriteFailureIsNotFatal(t *testing.T) {
	searcher, generator, suggestions, svc := newDraftFixture()

	searcher.On("Search", mock.Anything, mock.Anything).Return([]*domain.KnowledgeDocument{}, nil)
	generator.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"summary":"s","reasoning":"r","reply":"ok"}`, nil)
	suggestions.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	result, err := svc.Draft(context.Background(), DraftInput{
		TenantID:      "tenant-1",
		TicketID:      "ticket-1",
		StudentName:   "Jordan Lee",
		StudentEmail:  "jordan@example.edu",
		LatestMessage: "Can you help me?",
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestBuildDraftContent_Deterministic(t *testing.T) {
	input := DraftInput{
		StudentName:  "Jordan Lee",
		StudentEmail: "jordan@example.edu",
		ThreadContext: []ThreadMessage{
			{Sender: "student", Body: "first"},
			{Sender: "advisor", Body: "second"},
			{Sender: "student", Body: "third"},
			{Sender: "advisor", Body: "fourth"},
		},
		StudentNotes: "Pell eligible",
	}
	docs := []*domain.KnowledgeDocument{
		{Title: "FAFSA Deadlines", Content: "march 1"},
	}

	a := buildDraftContent(input, "masked text", docs)
	b := buildDraftContent(input, "masked text", docs)

	assert.Equal(t, a, b)
	assert.Contains(t, a, "Student: Jordan Lee (jordan@example.edu)")
	assert.Contains(t, a, "masked text")
	assert.Contains(t, a, "[KB Article 1: FAFSA Deadlines]")
	assert.Contains(t, a, "Student notes: Pell eligible")
	// Only the last three thread messages survive
	assert.NotContains(t, a, "first")
	assert.Contains(t, a, "- advisor: second...")
	assert.Contains(t, a, "- student: third...")
	assert.Contains(t, a, "- advisor: fourth...")
}

func TestDraftService_AcceptSuggestion(t *testing.T) {
	_, _, suggestions, svc := newDraftFixture()

	suggestions.On("MarkAccepted", mock.Anything, "tenant-1", "sug-1").Return(nil)

	err := svc.AcceptSuggestion(context.Background(), "tenant-1", "sug-1")

	assert.NoError(t, err)
	suggestions.AssertExpectations(t)
}

func TestDraftService_AcceptSuggestion_MissingID(t *testing.T) {
	_, _, suggestions, svc := newDraftFixture()

	err := svc.AcceptSuggestion(context.Background(), "tenant-1", "")

	assert.Error(t, err)
	suggestions.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/genai"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

const (
	// draftKnowledgeLimit is how many ranked documents feed one draft
	draftKnowledgeLimit = 3
	// threadTailSize is how many recent thread messages feed one draft
	threadTailSize = 3
	// threadBodyBudget bounds each thread message in the assembled content
	threadBodyBudget = 200
	// knowledgeExcerptBudget bounds each document excerpt in the assembled content
	knowledgeExcerptBudget = 800
	// citedExcerptBudget bounds each excerpt in the returned citation list
	citedExcerptBudget = 200
)

const draftSystemPrompt = `You are a professional financial aid advisor AI assistant. Your role is to help draft empathetic, accurate responses to student inquiries.

IMPORTANT RULES:
1. NEVER fabricate or guess financial aid amounts, award statuses, or SIS/FAMS data
2. If the answer requires checking official records, instruct the student that a counselor will review their account
3. Always cite Knowledge Base articles when providing policy information
4. Use a warm, professional, empathetic tone
5. Keep responses clear and concise
6. Always end with the required disclaimer

RESPONSE FORMAT:
Provide your response in this exact JSON structure:
{
  "summary": "Brief summary of the student's question",
  "reasoning": "Your analysis of the question and what information is needed",
  "reply": "The draft email response"
}
`

// GenerationClient defines the generation round trip used by drafting and triage
type GenerationClient interface {
	Complete(ctx context.Context, system, user, sessionID string) (string, error)
}

// Masker defines the redaction pass applied before any text leaves the system
type Masker interface {
	Mask(text string) (string, domain.RedactionReport)
}

// KnowledgeSearcher defines the ranking interface used to retrieve draft context
type KnowledgeSearcher interface {
	Search(ctx context.Context, input SearchInput) ([]*domain.KnowledgeDocument, error)
}

// SuggestionRepositoryInterface defines persistence for generation audit records
type SuggestionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Suggestion) error
	ListByTicket(ctx context.Context, tenantID, ticketID string) ([]*domain.Suggestion, error)
	MarkAccepted(ctx context.Context, tenantID, id string) error
}

// ThreadMessage is one prior message handed to the draft assembler
type ThreadMessage struct {
	Sender string
	Body   string
}

// DraftInput represents the input for drafting a reply to a ticket
type DraftInput struct {
	TenantID      string
	TicketID      string
	StudentName   string
	StudentEmail  string
	LatestMessage string
	ThreadContext []ThreadMessage
	StudentNotes  string
}

// DraftService produces reviewed-before-send reply drafts. The pipeline is
// retrieval on the original query, redaction of everything sent outward, one
// generation round trip, parse with degrade-not-fail, then the mandatory
// disclaimer.
type DraftService struct {
	searcher       KnowledgeSearcher
	masker         Masker
	generator      GenerationClient
	suggestionRepo SuggestionRepositoryInterface
	uuidGen        UUIDGenerator
}

// NewDraftService creates a new DraftService instance
func NewDraftService(
	searcher KnowledgeSearcher,
	masker Masker,
	generator GenerationClient,
	suggestionRepo SuggestionRepositoryInterface,
) *DraftService {
	return &DraftService{
		searcher:       searcher,
		masker:         masker,
		generator:      generator,
		suggestionRepo: suggestionRepo,
		uuidGen:        &DefaultUUIDGenerator{},
	}
}

// NewDraftServiceWithUUIDGen creates a new DraftService with custom UUID generator (for testing)
func NewDraftServiceWithUUIDGen(
	searcher KnowledgeSearcher,
	masker Masker,
	generator GenerationClient,
	suggestionRepo SuggestionRepositoryInterface,
	uuidGen UUIDGenerator,
) *DraftService {
	return &DraftService{
		searcher:       searcher,
		masker:         masker,
		generator:      generator,
		suggestionRepo: suggestionRepo,
		uuidGen:        uuidGen,
	}
}

// Draft generates a reply draft for a ticket. Retrieval uses the original
// message for match quality; only the masked form is ever sent to the
// generation service. Unparseable generation output degrades to a result
// carrying the raw text; a failed generation round trip is returned as an
// upstream error.
func (s *DraftService) Draft(ctx context.Context, input DraftInput) (*domain.DraftResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DraftService.Draft", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		TicketID:  input.TicketID,
		Operation: "draft",
	})
	defer span.End()

	if input.LatestMessage == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "latest message is required")
	}

	docs, err := s.searcher.Search(ctx, SearchInput{
		TenantID: input.TenantID,
		Query:    input.LatestMessage,
		Limit:    draftKnowledgeLimit,
	})
	if err != nil {
		return nil, err
	}

	masked, report := s.masker.Mask(input.LatestMessage)
	userContent := buildDraftContent(input, masked, docs)

	sessionID := "draft_" + input.TicketID
	raw, err := s.generator.Complete(ctx, draftSystemPrompt, userContent, sessionID)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "generation service request failed", err)
	}

	parsed := genai.ParseDraft(raw)

	cited := make([]domain.CitedDocument, len(docs))
	for i, doc := range docs {
		cited[i] = domain.CitedDocument{
			Title:    doc.Title,
			Category: doc.Category,
			Excerpt:  truncate(doc.Content, citedExcerptBudget) + "...",
		}
	}

	result := &domain.DraftResult{
		Summary:         parsed.Summary,
		Reasoning:       parsed.Reasoning,
		ReplyBody:       parsed.Reply,
		CitedDocuments:  cited,
		RedactionReport: report,
		FinalReply:      parsed.Reply + domain.DisclaimerText,
		Degraded:        parsed.Degraded,
	}

	recordSuggestion(ctx, s.suggestionRepo, s.uuidGen, input.TenantID, input.TicketID, domain.SuggestionTypeDraftReply, userContent, result)

	return result, nil
}

// ListSuggestions retrieves the audit trail of generation results for a ticket
func (s *DraftService) ListSuggestions(ctx context.Context, tenantID, ticketID string) ([]*domain.Suggestion, error) {
	return s.suggestionRepo.ListByTicket(ctx, tenantID, ticketID)
}

// AcceptSuggestion records that an advisor used a suggestion
func (s *DraftService) AcceptSuggestion(ctx context.Context, tenantID, suggestionID string) error {
	if suggestionID == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "suggestion ID is required")
	}
	return s.suggestionRepo.MarkAccepted(ctx, tenantID, suggestionID)
}

// buildDraftContent assembles the user-facing generation content in fixed
// order: identity line, masked inquiry, thread tail, notes, then knowledge
// excerpts. Assembly is deterministic for identical inputs.
func buildDraftContent(input DraftInput, maskedMessage string, docs []*domain.KnowledgeDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Student: %s (%s)\n\n", input.StudentName, input.StudentEmail)
	fmt.Fprintf(&b, "Latest student message:\n%s\n", maskedMessage)

	if len(input.ThreadContext) > 0 {
		tail := input.ThreadContext
		if len(tail) > threadTailSize {
			tail = tail[len(tail)-threadTailSize:]
		}
		b.WriteString("\nPrevious conversation:\n")
		for _, msg := range tail {
			sender := msg.Sender
			if sender == "" {
				sender = "Unknown"
			}
			fmt.Fprintf(&b, "- %s: %s...\n", sender, truncate(msg.Body, threadBodyBudget))
		}
	}

	if input.StudentNotes != "" {
		fmt.Fprintf(&b, "\nStudent notes: %s\n", input.StudentNotes)
	}

	b.WriteString("\nRelevant Knowledge Base articles:\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "\n[KB Article %d: %s]\n%s...\n", i+1, doc.Title, truncate(doc.Content, knowledgeExcerptBudget))
	}

	b.WriteString(`
Draft a professional, empathetic reply that:
1. Acknowledges the student's question
2. Provides relevant information from the Knowledge Base (cite article titles)
3. Requests any missing information needed
4. If the question requires checking official records, states that a counselor will review their account
5. Ends with contact information for follow-up

Remember: DO NOT make up award amounts, balances, or account details.
`)

	return b.String()
}

// truncate bounds s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

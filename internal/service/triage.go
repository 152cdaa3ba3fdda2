package service

import (
	"context"
	"fmt"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/genai"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

const triageSystemPrompt = `You are an AI triage assistant for a university financial aid office. Your job is to analyze incoming student emails and categorize them.

Categories:
- fafsa: Questions about FAFSA application, deadlines, completion
- verification: Questions about verification process, required documents
- sap_appeal: Satisfactory Academic Progress issues, appeals
- billing: Questions about bills, charges, payment plans
- general: General questions, eligibility, other topics

Priority levels:
- urgent: Deadline in <7 days, account hold, disbursement issue
- high: Deadline in 7-14 days, verification needed
- medium: General questions, no immediate deadline
- low: Informational requests

Provide your response in this exact JSON format:
{
  "category": "one of: fafsa, verification, sap_appeal, billing, general",
  "priority": "one of: low, medium, high, urgent",
  "reasoning": "Brief explanation of your categorization"
}
`

// TriageInput represents the input for classifying one inquiry
type TriageInput struct {
	TenantID string
	TicketID string
	Text     string
}

// TriageService classifies inquiries into the category/priority taxonomy.
// Unlike drafting, any failure yields a complete deterministic fallback so
// ticket intake never blocks on generation-service availability.
type TriageService struct {
	masker         Masker
	generator      GenerationClient
	suggestionRepo SuggestionRepositoryInterface
	uuidGen        UUIDGenerator
}

// NewTriageService creates a new TriageService instance
func NewTriageService(
	masker Masker,
	generator GenerationClient,
	suggestionRepo SuggestionRepositoryInterface,
) *TriageService {
	return &TriageService{
		masker:         masker,
		generator:      generator,
		suggestionRepo: suggestionRepo,
		uuidGen:        &DefaultUUIDGenerator{},
	}
}

// NewTriageServiceWithUUIDGen creates a new TriageService with custom UUID generator (for testing)
func NewTriageServiceWithUUIDGen(
	masker Masker,
	generator GenerationClient,
	suggestionRepo SuggestionRepositoryInterface,
	uuidGen UUIDGenerator,
) *TriageService {
	return &TriageService{
		masker:         masker,
		generator:      generator,
		suggestionRepo: suggestionRepo,
		uuidGen:        uuidGen,
	}
}

// Classify masks the inquiry, runs one classification round trip, and
// strictly parses the result. On any failure it returns the full fallback
// (general/medium, reasoning naming the failure) rather than a partial merge.
// Classify never returns an error.
func (s *TriageService) Classify(ctx context.Context, input TriageInput) *domain.TriageResult {
	ctx, span := telemetry.StartSpan(ctx, "TriageService.Classify", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		TicketID:  input.TicketID,
		Operation: "triage",
	})
	defer span.End()

	masked, _ := s.masker.Mask(input.Text)
	userContent := "Categorize this student email:\n\n" + masked

	var result *domain.TriageResult

	sessionID := "triage_" + input.TenantID
	raw, err := s.generator.Complete(ctx, triageSystemPrompt, userContent, sessionID)
	if err != nil {
		result = s.fallback(ctx, err)
	} else if parsed, perr := genai.ParseTriage(raw); perr != nil {
		result = s.fallback(ctx, perr)
	} else {
		result = &domain.TriageResult{
			Category:  parsed.Category,
			Priority:  parsed.Priority,
			Reasoning: parsed.Reasoning,
		}
	}

	if input.TicketID != "" {
		recordSuggestion(ctx, s.suggestionRepo, s.uuidGen, input.TenantID, input.TicketID, domain.SuggestionTypeTriage, userContent, result)
	}

	return result
}

func (s *TriageService) fallback(ctx context.Context, cause error) *domain.TriageResult {
	telemetry.CaptureError(ctx, cause)
	return &domain.TriageResult{
		Category:  domain.TicketCategoryGeneral,
		Priority:  domain.TicketPriorityMedium,
		Reasoning: fmt.Sprintf("AI triage unavailable: %v", cause),
		Fallback:  true,
	}
}


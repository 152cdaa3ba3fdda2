package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aidhubhq/aidhub/internal/domain"
)

// Placeholder field values substituted by ParseDraft. The degraded pair marks
// output that could not be decoded at all; the fallback pair fills fields the
// model omitted from otherwise valid output.
const (
	DegradedSummary   = "Unable to parse AI response"
	DegradedReasoning = "AI returned non-JSON response"
	FallbackSummary   = "Student inquiry"
	FallbackReasoning = "N/A"
)

// ParsedDraft holds the validated fields of one draft-reply generation.
// Degraded marks a result synthesized from unparseable output.
type ParsedDraft struct {
	Summary   string
	Reasoning string
	Reply     string
	Degraded  bool
}

// ParsedTriage holds the validated fields of one triage classification.
type ParsedTriage struct {
	Category  domain.TicketCategory
	Priority  domain.TicketPriority
	Reasoning string
}

type draftPayload struct {
	Summary   string `json:"summary"`
	Reasoning string `json:"reasoning"`
	Reply     string `json:"reply"`
}

type triagePayload struct {
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// StripFences removes one wrapping markdown code fence, with or without a
// language tag, from raw model output.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// ParseDraft decodes raw model output into draft fields. It never fails: when
// the output is not valid JSON it returns a degraded result carrying the full
// raw text as the reply, so a reviewer always sees something actionable.
func ParseDraft(raw string) ParsedDraft {
	var payload draftPayload
	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return ParsedDraft{
			Summary:   DegradedSummary,
			Reasoning: DegradedReasoning,
			Reply:     raw,
			Degraded:  true,
		}
	}

	if payload.Summary == "" {
		payload.Summary = FallbackSummary
	}
	if payload.Reasoning == "" {
		payload.Reasoning = FallbackReasoning
	}

	return ParsedDraft{
		Summary:   payload.Summary,
		Reasoning: payload.Reasoning,
		Reply:     payload.Reply,
	}
}

// ParseTriage strictly decodes raw model output into a classification. Any
// decode or taxonomy failure is an error; the caller substitutes its fallback.
func ParseTriage(raw string) (ParsedTriage, error) {
	var payload triagePayload
	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return ParsedTriage{}, fmt.Errorf("triage output is not valid JSON: %w", err)
	}

	category := domain.TicketCategory(payload.Category)
	if !domain.IsValidTicketCategory(category) {
		return ParsedTriage{}, fmt.Errorf("triage output has unknown category %q", payload.Category)
	}

	priority := domain.TicketPriority(payload.Priority)
	if !domain.IsValidTicketPriority(priority) {
		return ParsedTriage{}, fmt.Errorf("triage output has unknown priority %q", payload.Priority)
	}

	return ParsedTriage{
		Category:  category,
		Priority:  priority,
		Reasoning: payload.Reasoning,
	}, nil
}

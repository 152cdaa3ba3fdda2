package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidhubhq/aidhub/internal/api"
	"github.com/aidhubhq/aidhub/internal/api/middleware"
	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/service"
)

type DraftService interface {
	Draft(ctx context.Context, input service.DraftInput) (*domain.DraftResult, error)
	ListSuggestions(ctx context.Context, tenantID, ticketID string) ([]*domain.Suggestion, error)
	AcceptSuggestion(ctx context.Context, tenantID, suggestionID string) error
}

type TriageService interface {
	Classify(ctx context.Context, input service.TriageInput) *domain.TriageResult
}

// AIHandler exposes the generation-backed flows. Drafting assembles its
// context from the ticket record, its student, and the message thread.
type AIHandler struct {
	drafts   DraftService
	triage   TriageService
	tickets  TicketService
	students StudentService
}

func NewAIHandler(drafts DraftService, triage TriageService, tickets TicketService, students StudentService) *AIHandler {
	return &AIHandler{
		drafts:   drafts,
		triage:   triage,
		tickets:  tickets,
		students: students,
	}
}

type DraftResponse struct {
	Summary         string                 `json:"summary"`
	Reasoning       string                 `json:"reasoning"`
	ReplyBody       string                 `json:"reply_body"`
	CitedDocuments  []domain.CitedDocument `json:"cited_documents"`
	RedactionReport domain.RedactionReport `json:"redaction_report"`
	FinalReply      string                 `json:"final_reply"`
	Degraded        bool                   `json:"degraded"`
}

type TriageRequest struct {
	TicketID string `json:"ticket_id"`
	Text     string `json:"text"`
}

type TriageResponse struct {
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
	Fallback  bool   `json:"fallback"`
}

type SuggestionResponse struct {
	ID        string          `json:"id"`
	TicketID  string          `json:"ticket_id"`
	Type      string          `json:"type"`
	Output    json.RawMessage `json:"output"`
	Accepted  bool            `json:"accepted"`
	CreatedAt string          `json:"created_at"`
}

func (h *AIHandler) Draft(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	ticket, err := h.tickets.GetByID(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	student, err := h.students.GetByID(r.Context(), tenantID, ticket.StudentID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	messages, err := h.tickets.ListMessages(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	// The draft answers the most recent inbound message; everything before it
	// is thread context.
	latestIdx := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Direction == domain.MessageDirectionInbound {
			latestIdx = i
			break
		}
	}
	if latestIdx < 0 {
		api.Error(w, http.StatusBadRequest, "ticket has no inbound message to reply to")
		return
	}

	var thread []service.ThreadMessage
	for _, m := range messages[:latestIdx] {
		thread = append(thread, service.ThreadMessage{
			Sender: m.SenderEmail,
			Body:   m.Body,
		})
	}

	input := service.DraftInput{
		TenantID:      tenantID,
		TicketID:      id,
		StudentName:   student.Name,
		StudentEmail:  student.Email,
		LatestMessage: messages[latestIdx].Body,
		ThreadContext: thread,
		StudentNotes:  student.Notes,
	}

	result, err := h.drafts.Draft(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DraftResponse{
		Summary:         result.Summary,
		Reasoning:       result.Reasoning,
		ReplyBody:       result.ReplyBody,
		CitedDocuments:  result.CitedDocuments,
		RedactionReport: result.RedactionReport,
		FinalReply:      result.FinalReply,
		Degraded:        result.Degraded,
	})
}

func (h *AIHandler) Triage(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	result := h.triage.Classify(r.Context(), service.TriageInput{
		TenantID: tenantID,
		TicketID: req.TicketID,
		Text:     req.Text,
	})

	api.Success(w, http.StatusOK, TriageResponse{
		Category:  string(result.Category),
		Priority:  string(result.Priority),
		Reasoning: result.Reasoning,
		Fallback:  result.Fallback,
	})
}

type SuggestionListResponse struct {
	Items []*SuggestionResponse `json:"items"`
}

func (h *AIHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	suggestions, err := h.drafts.ListSuggestions(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*SuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		responses[i] = &SuggestionResponse{
			ID:        s.ID,
			TicketID:  s.TicketID,
			Type:      string(s.Type),
			Output:    json.RawMessage(s.Output),
			Accepted:  s.Accepted,
			CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	api.Success(w, http.StatusOK, SuggestionListResponse{Items: responses})
}

func (h *AIHandler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.drafts.AcceptSuggestion(r.Context(), tenantID, id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]bool{"accepted": true})
}

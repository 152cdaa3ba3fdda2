package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aidhubhq/aidhub/internal/api"
	"github.com/aidhubhq/aidhub/internal/api/middleware"
	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/service"
)

type TicketService interface {
	Create(ctx context.Context, input service.CreateTicketInput) (*domain.Ticket, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	List(ctx context.Context, input service.ListTicketsInput) (*service.ListTicketsOutput, error)
	Update(ctx context.Context, input service.UpdateTicketInput) (*domain.Ticket, error)
	AddMessage(ctx context.Context, input service.AddMessageInput) (*domain.Message, error)
	ListMessages(ctx context.Context, tenantID, ticketID string) ([]*domain.Message, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

type CreateTicketRequest struct {
	StudentID   string `json:"student_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	SenderEmail string `json:"sender_email"`
	Channel     string `json:"channel"`
}

type UpdateTicketRequest struct {
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	AssigneeID string `json:"assignee_id"`
	QueueID    string `json:"queue_id"`
}

type AddMessageRequest struct {
	SenderEmail    string `json:"sender_email"`
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Direction      string `json:"direction"`
}

type TicketResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	StudentID  string `json:"student_id"`
	Subject    string `json:"subject"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	QueueID    string `json:"queue_id,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	Channel    string `json:"channel"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type MessageResponse struct {
	ID             string `json:"id"`
	TicketID       string `json:"ticket_id"`
	SenderEmail    string `json:"sender_email"`
	RecipientEmail string `json:"recipient_email,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Body           string `json:"body"`
	Direction      string `json:"direction"`
	ThreadID       string `json:"thread_id"`
	CreatedAt      string `json:"created_at"`
}

func ticketToResponse(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:         t.ID,
		TenantID:   t.TenantID,
		StudentID:  t.StudentID,
		Subject:    t.Subject,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		Category:   string(t.Category),
		QueueID:    t.QueueID,
		AssigneeID: t.AssigneeID,
		Channel:    string(t.Channel),
		CreatedAt:  t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func messageToResponse(m *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		TicketID:       m.TicketID,
		SenderEmail:    m.SenderEmail,
		RecipientEmail: m.RecipientEmail,
		Subject:        m.Subject,
		Body:           m.Body,
		Direction:      string(m.Direction),
		ThreadID:       m.ThreadID,
		CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StudentID == "" {
		api.Error(w, http.StatusBadRequest, "student_id is required")
		return
	}
	if req.Subject == "" {
		api.Error(w, http.StatusBadRequest, "subject is required")
		return
	}

	input := service.CreateTicketInput{
		TenantID:    tenantID,
		StudentID:   req.StudentID,
		Subject:     req.Subject,
		Body:        req.Body,
		SenderEmail: req.SenderEmail,
		Channel:     domain.TicketChannel(req.Channel),
	}

	ticket, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ticketToResponse(ticket))
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	ticket, err := h.svc.GetByID(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ticketToResponse(ticket))
}

type TicketListResponse struct {
	Items   []*TicketResponse `json:"items"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status := domain.TicketStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.IsValidTicketStatus(status) {
		api.Error(w, http.StatusBadRequest, "invalid ticket status")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	input := service.ListTicketsInput{
		TenantID: tenantID,
		Status:   status,
		Cursor:   r.URL.Query().Get("cursor"),
		Limit:    limit,
	}

	output, err := h.svc.List(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*TicketResponse, len(output.Items))
	for i, t := range output.Items {
		responses[i] = ticketToResponse(t)
	}

	api.Success(w, http.StatusOK, TicketListResponse{
		Items:   responses,
		Cursor:  output.Cursor,
		HasMore: output.HasMore,
	})
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateTicketInput{
		TenantID:   tenantID,
		TicketID:   id,
		Status:     domain.TicketStatus(req.Status),
		Priority:   domain.TicketPriority(req.Priority),
		Category:   domain.TicketCategory(req.Category),
		AssigneeID: req.AssigneeID,
		QueueID:    req.QueueID,
	}

	ticket, err := h.svc.Update(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ticketToResponse(ticket))
}

func (h *TicketHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
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

	var req AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Body == "" {
		api.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if req.SenderEmail == "" {
		api.Error(w, http.StatusBadRequest, "sender_email is required")
		return
	}

	input := service.AddMessageInput{
		TenantID:       tenantID,
		TicketID:       id,
		SenderEmail:    req.SenderEmail,
		RecipientEmail: req.RecipientEmail,
		Subject:        req.Subject,
		Body:           req.Body,
		Direction:      domain.MessageDirection(req.Direction),
	}

	msg, err := h.svc.AddMessage(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, messageToResponse(msg))
}

type MessageListResponse struct {
	Items []*MessageResponse `json:"items"`
}

func (h *TicketHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.svc.ListMessages(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = messageToResponse(m)
	}

	api.Success(w, http.StatusOK, MessageListResponse{Items: responses})
}

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

type StudentService interface {
	Create(ctx context.Context, input service.CreateStudentInput) (*domain.Student, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, tenantID, email string) (*domain.Student, error)
	List(ctx context.Context, tenantID string) ([]*domain.Student, error)
	Update(ctx context.Context, input service.UpdateStudentInput) (*domain.Student, error)
	RecordEvent(ctx context.Context, input service.RecordEventInput) (*domain.StudentEvent, error)
	ListEvents(ctx context.Context, tenantID, studentID string) ([]*domain.StudentEvent, error)
}

type StudentHandler struct {
	svc StudentService
}

func NewStudentHandler(svc StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

type CreateStudentRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	SISURL    string `json:"sis_url"`
}

type UpdateStudentRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Notes  string `json:"notes"`
	SISURL string `json:"sis_url"`
}

type RecordEventRequest struct {
	TicketID  string `json:"ticket_id"`
	EventType string `json:"event_type"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
}

type StudentResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	StudentID string `json:"student_id,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	SISURL    string `json:"sis_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type StudentEventResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	TicketID  string `json:"ticket_id,omitempty"`
	EventType string `json:"event_type"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

func studentToResponse(s *domain.Student) *StudentResponse {
	return &StudentResponse{
		ID:        s.ID,
		TenantID:  s.TenantID,
		Email:     s.Email,
		Name:      s.Name,
		StudentID: s.StudentID,
		Phone:     s.Phone,
		Notes:     s.Notes,
		SISURL:    s.SISURL,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func eventToResponse(e *domain.StudentEvent) *StudentEventResponse {
	return &StudentEventResponse{
		ID:        e.ID,
		StudentID: e.StudentID,
		TicketID:  e.TicketID,
		EventType: string(e.EventType),
		Content:   e.Content,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		api.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	input := service.CreateStudentInput{
		TenantID:  tenantID,
		Email:     req.Email,
		Name:      req.Name,
		StudentID: req.StudentID,
		Phone:     req.Phone,
		Notes:     req.Notes,
		SISURL:    req.SISURL,
	}

	student, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, studentToResponse(student))
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	student, err := h.svc.GetByID(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, studentToResponse(student))
}

type StudentListResponse struct {
	Items []*StudentResponse `json:"items"`
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// An email filter turns the list into a point lookup.
	if email := r.URL.Query().Get("email"); email != "" {
		student, err := h.svc.GetByEmail(r.Context(), tenantID, email)
		if err != nil {
			api.HandleError(w, err)
			return
		}
		api.Success(w, http.StatusOK, StudentListResponse{Items: []*StudentResponse{studentToResponse(student)}})
		return
	}

	students, err := h.svc.List(r.Context(), tenantID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*StudentResponse, len(students))
	for i, s := range students {
		responses[i] = studentToResponse(s)
	}

	api.Success(w, http.StatusOK, StudentListResponse{Items: responses})
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateStudentInput{
		TenantID: tenantID,
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Notes:    req.Notes,
		SISURL:   req.SISURL,
	}

	student, err := h.svc.Update(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, studentToResponse(student))
}

func (h *StudentHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
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

	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EventType == "" {
		api.Error(w, http.StatusBadRequest, "event_type is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	input := service.RecordEventInput{
		TenantID:  tenantID,
		StudentID: id,
		TicketID:  req.TicketID,
		EventType: domain.StudentEventType(req.EventType),
		Content:   req.Content,
		CreatedBy: req.CreatedBy,
	}

	event, err := h.svc.RecordEvent(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, eventToResponse(event))
}

type StudentEventListResponse struct {
	Items []*StudentEventResponse `json:"items"`
}

func (h *StudentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.svc.ListEvents(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*StudentEventResponse, len(events))
	for i, e := range events {
		responses[i] = eventToResponse(e)
	}

	api.Success(w, http.StatusOK, StudentEventListResponse{Items: responses})
}

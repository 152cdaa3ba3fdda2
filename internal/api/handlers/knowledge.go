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

type KnowledgeService interface {
	Create(ctx context.Context, input service.CreateKnowledgeInput) (*domain.KnowledgeDocument, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.KnowledgeDocument, error)
	List(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error)
	Update(ctx context.Context, input service.UpdateKnowledgeInput) (*domain.KnowledgeDocument, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type KnowledgeSearcher interface {
	Search(ctx context.Context, input service.SearchInput) ([]*domain.KnowledgeDocument, error)
}

type KnowledgeHandler struct {
	svc      KnowledgeService
	searcher KnowledgeSearcher
}

func NewKnowledgeHandler(svc KnowledgeService, searcher KnowledgeSearcher) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc, searcher: searcher}
}

type CreateKnowledgeRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Searchable *bool    `json:"searchable"`
	Tags       []string `json:"tags"`
}

type UpdateKnowledgeRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Searchable *bool    `json:"searchable"`
	Tags       []string `json:"tags"`
}

type KnowledgeResponse struct {
	ID         string   `json:"id"`
	TenantID   string   `json:"tenant_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Searchable bool     `json:"searchable"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func knowledgeToResponse(d *domain.KnowledgeDocument) *KnowledgeResponse {
	return &KnowledgeResponse{
		ID:         d.ID,
		TenantID:   d.TenantID,
		Title:      d.Title,
		Content:    d.Content,
		Category:   string(d.Category),
		Searchable: d.Searchable,
		Tags:       d.Tags,
		CreatedAt:  d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  d.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *KnowledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Category == "" {
		api.Error(w, http.StatusBadRequest, "category is required")
		return
	}

	category := domain.KnowledgeCategory(req.Category)
	if !domain.IsValidKnowledgeCategory(category) {
		api.Error(w, http.StatusBadRequest, "invalid knowledge category")
		return
	}

	// New documents are searchable unless explicitly excluded.
	searchable := true
	if req.Searchable != nil {
		searchable = *req.Searchable
	}

	input := service.CreateKnowledgeInput{
		TenantID:   tenantID,
		Title:      req.Title,
		Content:    req.Content,
		Category:   category,
		Searchable: searchable,
		Tags:       req.Tags,
	}

	doc, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, knowledgeToResponse(doc))
}

func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.svc.GetByID(r.Context(), tenantID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, knowledgeToResponse(doc))
}

type KnowledgeListResponse struct {
	Items []*KnowledgeResponse `json:"items"`
}

func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	category := domain.KnowledgeCategory(r.URL.Query().Get("category"))
	if category != "" && !domain.IsValidKnowledgeCategory(category) {
		api.Error(w, http.StatusBadRequest, "invalid knowledge category")
		return
	}

	docs, err := h.svc.List(r.Context(), tenantID, category)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*KnowledgeResponse, len(docs))
	for i, d := range docs {
		responses[i] = knowledgeToResponse(d)
	}

	api.Success(w, http.StatusOK, KnowledgeListResponse{Items: responses})
}

func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	category := domain.KnowledgeCategory(req.Category)
	if req.Category != "" && !domain.IsValidKnowledgeCategory(category) {
		api.Error(w, http.StatusBadRequest, "invalid knowledge category")
		return
	}

	searchable := true
	if req.Searchable != nil {
		searchable = *req.Searchable
	}

	input := service.UpdateKnowledgeInput{
		TenantID:   tenantID,
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Category:   category,
		Searchable: searchable,
		Tags:       req.Tags,
	}

	doc, err := h.svc.Update(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, knowledgeToResponse(doc))
}

func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Delete(r.Context(), tenantID, id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}

func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		api.Error(w, http.StatusBadRequest, "q is required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	input := service.SearchInput{
		TenantID: tenantID,
		Query:    query,
		Category: domain.KnowledgeCategory(r.URL.Query().Get("category")),
		Limit:    limit,
	}

	docs, err := h.searcher.Search(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*KnowledgeResponse, len(docs))
	for i, d := range docs {
		responses[i] = knowledgeToResponse(d)
	}

	api.Success(w, http.StatusOK, KnowledgeListResponse{Items: responses})
}

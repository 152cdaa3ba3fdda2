package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/service"
)

type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) Create(ctx context.Context, input service.CreateKnowledgeInput) (*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeService) GetByID(ctx context.Context, tenantID, id string) (*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeService) List(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeService) Update(ctx context.Context, input service.UpdateKnowledgeInput) (*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeService) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockKnowledgeSearcher struct {
	mock.Mock
}

func (m *MockKnowledgeSearcher) Search(ctx context.Context, input service.SearchInput) ([]*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeDocument), args.Error(1)
}

func newTestDoc() *domain.KnowledgeDocument {
	now := time.Now().UTC()
	return &domain.KnowledgeDocument{
		ID:         "k-123",
		TenantID:   "tenant-456",
		Title:      "SAP Appeal Process",
		Content:    "Students may appeal the loss of aid eligibility.",
		Category:   domain.KnowledgeCategorySAPAppeal,
		Searchable: true,
		Tags:       []string{"sap", "appeal"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestKnowledgeHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	expected := newTestDoc()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateKnowledgeInput) bool {
		return input.TenantID == "tenant-456" &&
			input.Title == "SAP Appeal Process" &&
			input.Category == domain.KnowledgeCategorySAPAppeal &&
			input.Searchable
	})).Return(expected, nil)

	body, _ := json.Marshal(CreateKnowledgeRequest{
		Title:    "SAP Appeal Process",
		Content:  "Students may appeal the loss of aid eligibility.",
		Category: "sap_appeal",
		Tags:     []string{"sap", "appeal"},
	})
	req := requestWithTenantID(http.MethodPost, "/knowledge", body)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "k-123", data["id"])
	assert.Equal(t, true, data["searchable"])
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeHandler_Create_InvalidCategory(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	body, _ := json.Marshal(CreateKnowledgeRequest{
		Title:    "Doc",
		Content:  "Content",
		Category: "housing",
	})
	req := requestWithTenantID(http.MethodPost, "/knowledge", body)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestKnowledgeHandler_Create_NotSearchable(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	expected := newTestDoc()
	expected.Searchable = false
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateKnowledgeInput) bool {
		return !input.Searchable
	})).Return(expected, nil)

	searchable := false
	body, _ := json.Marshal(CreateKnowledgeRequest{
		Title:      "Internal Notes",
		Content:    "Counselor-only guidance.",
		Category:   "general",
		Searchable: &searchable,
	})
	req := requestWithTenantID(http.MethodPost, "/knowledge", body)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	mockSvc.On("GetByID", mock.Anything, "tenant-456", "missing").Return(nil, domain.ErrKnowledgeNotFound)

	req := requestWithTenantID(http.MethodGet, "/knowledge/missing", nil)
	req = withURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKnowledgeHandler_List_CategoryFilter(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	docs := []*domain.KnowledgeDocument{newTestDoc()}
	mockSvc.On("List", mock.Anything, "tenant-456", domain.KnowledgeCategorySAPAppeal).Return(docs, nil)

	req := requestWithTenantID(http.MethodGet, "/knowledge?category=sap_appeal", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeHandler_Search_Success(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	docs := []*domain.KnowledgeDocument{newTestDoc()}
	mockSearcher.On("Search", mock.Anything, service.SearchInput{
		TenantID: "tenant-456",
		Query:    "sap appeal deadline",
		Limit:    5,
	}).Return(docs, nil)

	req := requestWithTenantID(http.MethodGet, "/knowledge/search?q=sap+appeal+deadline&limit=5", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "SAP Appeal Process", first["title"])
	mockSearcher.AssertExpectations(t)
}

func TestKnowledgeHandler_Search_MissingQuery(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	req := requestWithTenantID(http.MethodGet, "/knowledge/search", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSearcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestKnowledgeHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	mockSvc.On("Delete", mock.Anything, "tenant-456", "k-123").Return(nil)

	req := requestWithTenantID(http.MethodDelete, "/knowledge/k-123", nil)
	req = withURLParam(req, "id", "k-123")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeHandler_Unauthorized(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	mockSearcher := new(MockKnowledgeSearcher)
	handler := NewKnowledgeHandler(mockSvc, mockSearcher)

	req := httptest.NewRequest(http.MethodGet, "/knowledge", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

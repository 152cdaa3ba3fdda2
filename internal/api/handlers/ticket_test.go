package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/service"
)

func TestTicketHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	expected := newTestTicket()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateTicketInput) bool {
		return input.TenantID == "tenant-456" &&
			input.StudentID == "student-1" &&
			input.Subject == "FAFSA question" &&
			input.Channel == domain.TicketChannelEmail
	})).Return(expected, nil)

	body := `{"student_id":"student-1","subject":"FAFSA question","body":"When is the deadline?","sender_email":"jordan@test.edu","channel":"email"}`
	req := requestWithTenantID(http.MethodPost, "/tickets", []byte(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "open", data["status"])
	assert.Equal(t, "medium", data["priority"])
	mockSvc.AssertExpectations(t)
}

func TestTicketHandler_Create_MissingSubject(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	body := `{"student_id":"student-1"}`
	req := requestWithTenantID(http.MethodPost, "/tickets", []byte(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "subject is required")
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketHandler_Create_Unauthorized(t *testing.T) {
	handler := NewTicketHandler(new(MockTicketService))

	req := httptest.NewRequest(http.MethodPost, "/tickets", nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTicketHandler_List_Success(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	output := &service.ListTicketsOutput{
		Items:   []*domain.Ticket{newTestTicket()},
		Cursor:  "next-cursor",
		HasMore: true,
	}
	mockSvc.On("List", mock.Anything, service.ListTicketsInput{
		TenantID: "tenant-456",
		Status:   domain.TicketStatusOpen,
		Limit:    10,
	}).Return(output, nil)

	req := requestWithTenantID(http.MethodGet, "/tickets?status=open&limit=10", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "next-cursor", data["cursor"])
	assert.Equal(t, true, data["has_more"])
	mockSvc.AssertExpectations(t)
}

func TestTicketHandler_List_InvalidStatus(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	req := requestWithTenantID(http.MethodGet, "/tickets?status=bogus", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTicketHandler_Update_Success(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	updated := newTestTicket()
	updated.Status = domain.TicketStatusInProgress
	mockSvc.On("Update", mock.Anything, service.UpdateTicketInput{
		TenantID: "tenant-456",
		TicketID: "ticket-1",
		Status:   domain.TicketStatusInProgress,
	}).Return(updated, nil)

	body := `{"status":"in_progress"}`
	req := withURLParam(requestWithTenantID(http.MethodPatch, "/tickets/ticket-1", []byte(body)), "id", "ticket-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTicketHandler_AddMessage_Success(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	msg := &domain.Message{
		ID:          "m-9",
		TenantID:    "tenant-456",
		TicketID:    "ticket-1",
		SenderEmail: "jordan@test.edu",
		Body:        "Following up",
		Direction:   domain.MessageDirectionInbound,
		ThreadID:    "ticket-1",
	}
	mockSvc.On("AddMessage", mock.Anything, mock.MatchedBy(func(input service.AddMessageInput) bool {
		return input.TicketID == "ticket-1" && input.Direction == domain.MessageDirectionInbound
	})).Return(msg, nil)

	body := `{"sender_email":"jordan@test.edu","body":"Following up","direction":"inbound"}`
	req := withURLParam(requestWithTenantID(http.MethodPost, "/tickets/ticket-1/messages", []byte(body)), "id", "ticket-1")
	w := httptest.NewRecorder()

	handler.AddMessage(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTicketHandler_AddMessage_MissingBody(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	body := `{"sender_email":"jordan@test.edu","direction":"inbound"}`
	req := withURLParam(requestWithTenantID(http.MethodPost, "/tickets/ticket-1/messages", []byte(body)), "id", "ticket-1")
	w := httptest.NewRecorder()

	handler.AddMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}

func TestTicketHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockTicketService)
	handler := NewTicketHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "tenant-456", "missing").Return(nil, domain.ErrTicketNotFound)

	req := withURLParam(requestWithTenantID(http.MethodGet, "/tickets/missing", nil), "id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

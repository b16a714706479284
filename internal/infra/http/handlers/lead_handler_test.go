package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/preventia/duerp-crm/internal/entity"
)

type MockLeadRepo struct {
	mock.Mock
}

func (m *MockLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepo) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepo) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Lead, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepo) FindAll(ctx context.Context, bulkImported bool) ([]*entity.Lead, error) {
	args := m.Called(ctx, bulkImported)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepo) SetStatus(ctx context.Context, id int64, statusID *int64) error {
	args := m.Called(ctx, id, statusID)
	return args.Error(0)
}

func (m *MockLeadRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func TestCaptureLeadSuccess(t *testing.T) {
	repo := new(MockLeadRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Email == "prospect@exemple.fr" && l.Source == "formulaire"
	})).Return(nil)

	handler := NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]string{
		"email":     "prospect@exemple.fr",
		"full_name": "Jean Martin",
		"phone":     "0612345678",
	})
	req := httptest.NewRequest("POST", "/leads/capture", bytes.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response CaptureLeadResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.True(t, response.Success)
	repo.AssertExpectations(t)
}

func TestCaptureLeadInvalidJSON(t *testing.T) {
	handler := NewLeadHandler(new(MockLeadRepo))

	req := httptest.NewRequest("POST", "/leads/capture", bytes.NewReader([]byte("pas du json")))
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptureLeadRejectsMissingEmail(t *testing.T) {
	handler := NewLeadHandler(new(MockLeadRepo))

	body, _ := json.Marshal(map[string]string{"full_name": "Jean Martin"})
	req := httptest.NewRequest("POST", "/leads/capture", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response CaptureLeadResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.False(t, response.Success)
}

// La 11e requête de la même IP dans la fenêtre est refusée.
func TestCaptureLeadRateLimited(t *testing.T) {
	repo := new(MockLeadRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	handler := NewLeadHandler(repo)

	var lastCode int
	for i := 0; i < 11; i++ {
		body, _ := json.Marshal(map[string]string{
			"email":     fmt.Sprintf("p%d@exemple.fr", i),
			"full_name": "Jean Martin",
		})
		req := httptest.NewRequest("POST", "/leads/capture", bytes.NewReader(body))
		req.Header.Set("X-Forwarded-For", "203.0.113.99")
		w := httptest.NewRecorder()

		handler.CaptureLead(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestListLeadsFiltersBulkImported(t *testing.T) {
	repo := new(MockLeadRepo)
	repo.On("FindAll", mock.Anything, true).Return([]*entity.Lead{{ID: 2, BulkImported: true}}, nil)

	handler := NewLeadHandler(repo)

	req := httptest.NewRequest("GET", "/leads?bulk_imported=true", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var leads []*entity.Lead
	json.NewDecoder(w.Body).Decode(&leads)
	assert.Len(t, leads, 1)
	assert.True(t, leads[0].BulkImported)
	repo.AssertCalled(t, "FindAll", mock.Anything, true)
}

func TestDeleteLeadsRejectsEmptySelection(t *testing.T) {
	handler := NewLeadHandler(new(MockLeadRepo))

	body, _ := json.Marshal(DeleteLeadsRequest{LeadIDs: nil})
	req := httptest.NewRequest("DELETE", "/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

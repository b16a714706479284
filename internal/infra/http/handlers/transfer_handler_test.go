package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/usecase"
)

type MockClientStore struct {
	mock.Mock
}

func (m *MockClientStore) Create(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientStore) FindAll(ctx context.Context) ([]*entity.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Client), args.Error(1)
}

func TestTransferHandlerSuccess(t *testing.T) {
	leadRepo := new(MockLeadRepo)
	clientStore := new(MockClientStore)

	leads := []*entity.Lead{
		{ID: 1, Email: "a@exemple.fr", FullName: "Jean Martin", Phone: "0612345678"},
	}
	leadRepo.On("FindByIDs", mock.Anything, []int64{1}).Return(leads, nil)
	clientStore.On("Create", mock.Anything, mock.Anything).Return(nil)
	leadRepo.On("DeleteByIDs", mock.Anything, []int64{1}).Return(nil)
	clientStore.On("FindAll", mock.Anything).Return([]*entity.Client{{ID: 10, Email: "a@exemple.fr"}}, nil)

	handler := NewTransferHandler(usecase.NewTransferLeadsUseCase(leadRepo, clientStore))

	body, _ := json.Marshal(usecase.TransferInput{LeadIDs: []int64{1}})
	req := httptest.NewRequest("POST", "/leads/transfer", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Transfer(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var output usecase.TransferOutput
	json.NewDecoder(w.Body).Decode(&output)
	assert.Equal(t, 1, output.CreatedCount)
	assert.Equal(t, []int64{1}, output.TransferredIDs)
	assert.Len(t, output.Clients, 1)
}

func TestTransferHandlerEmptySelection(t *testing.T) {
	handler := NewTransferHandler(usecase.NewTransferLeadsUseCase(new(MockLeadRepo), new(MockClientStore)))

	body, _ := json.Marshal(usecase.TransferInput{})
	req := httptest.NewRequest("POST", "/leads/transfer", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Transfer(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "EMPTY_SELECTION", errResponse["error"])
}

// Tout le lot échoue: 422, aucun lead supprimé.
func TestTransferHandlerTotalFailure(t *testing.T) {
	leadRepo := new(MockLeadRepo)
	clientStore := new(MockClientStore)

	leads := []*entity.Lead{{ID: 1, Email: "", FullName: "Sans Email"}}
	leadRepo.On("FindByIDs", mock.Anything, []int64{1}).Return(leads, nil)

	handler := NewTransferHandler(usecase.NewTransferLeadsUseCase(leadRepo, clientStore))

	body, _ := json.Marshal(usecase.TransferInput{LeadIDs: []int64{1}})
	req := httptest.NewRequest("POST", "/leads/transfer", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Transfer(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	leadRepo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
}

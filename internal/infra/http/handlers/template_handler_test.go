package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/preventia/duerp-crm/internal/entity"
)

type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) FindByKey(ctx context.Context, key string) (*entity.EmailTemplate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepo) FindAll(ctx context.Context) ([]*entity.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepo) Upsert(ctx context.Context, t *entity.EmailTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepo) FindAllPDF(ctx context.Context) ([]*entity.PDFTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PDFTemplate), args.Error(1)
}

func (m *MockTemplateRepo) UpsertPDF(ctx context.Context, t *entity.PDFTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepo) DeletePDF(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepo) FindArgumentaire(ctx context.Context) (*entity.ArgumentaireDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ArgumentaireDocument), args.Error(1)
}

func (m *MockTemplateRepo) UpsertArgumentaire(ctx context.Context, d *entity.ArgumentaireDocument) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func TestGetArgumentaireReturnsCurrentDocument(t *testing.T) {
	repo := new(MockTemplateRepo)
	repo.On("FindArgumentaire", mock.Anything).Return(&entity.ArgumentaireDocument{
		ID:        1,
		Title:     "Argumentaire DUERP 2026",
		Body:      "Points clés de l'offre",
		UpdatedAt: time.Now(),
	}, nil)

	handler := NewTemplateHandler(repo, nil, nil)

	req := httptest.NewRequest("GET", "/argumentaire", nil)
	w := httptest.NewRecorder()

	handler.GetArgumentaire(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var doc entity.ArgumentaireDocument
	json.NewDecoder(w.Body).Decode(&doc)
	assert.Equal(t, "Argumentaire DUERP 2026", doc.Title)
}

func TestGetArgumentaireNotPublishedIs404(t *testing.T) {
	repo := new(MockTemplateRepo)
	repo.On("FindArgumentaire", mock.Anything).Return(nil, nil)

	handler := NewTemplateHandler(repo, nil, nil)

	req := httptest.NewRequest("GET", "/argumentaire", nil)
	w := httptest.NewRecorder()

	handler.GetArgumentaire(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertArgumentaireReplacesDocument(t *testing.T) {
	repo := new(MockTemplateRepo)
	repo.On("UpsertArgumentaire", mock.Anything, mock.MatchedBy(func(d *entity.ArgumentaireDocument) bool {
		return d.Title == "Nouvelle version"
	})).Return(nil)

	handler := NewTemplateHandler(repo, nil, nil)

	body, _ := json.Marshal(entity.ArgumentaireDocument{Title: "Nouvelle version", Body: "Contenu"})
	req := httptest.NewRequest("PUT", "/argumentaire", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpsertArgumentaire(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestUpsertArgumentaireRequiresTitle(t *testing.T) {
	handler := NewTemplateHandler(new(MockTemplateRepo), nil, nil)

	body, _ := json.Marshal(entity.ArgumentaireDocument{Body: "Sans titre"})
	req := httptest.NewRequest("PUT", "/argumentaire", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpsertArgumentaire(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/usecase"
)

type TemplateHandler struct {
	templateRepo entity.TemplateRepositoryInterface
	historyRepo  entity.EmailHistoryRepositoryInterface
	SendEmailUC  *usecase.SendEmailUseCase
}

func NewTemplateHandler(templateRepo entity.TemplateRepositoryInterface, historyRepo entity.EmailHistoryRepositoryInterface, sendEmailUC *usecase.SendEmailUseCase) *TemplateHandler {
	return &TemplateHandler{
		templateRepo: templateRepo,
		historyRepo:  historyRepo,
		SendEmailUC:  sendEmailUC,
	}
}

func (h *TemplateHandler) ListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateRepo.FindAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

// UpsertEmailTemplate crée ou remplace le modèle porté par sa clé.
func (h *TemplateHandler) UpsertEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl entity.EmailTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if tpl.Key == "" || tpl.Subject == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "key et subject sont obligatoires")
		return
	}
	tpl.UpdatedAt = time.Now()

	if err := h.templateRepo.Upsert(r.Context(), &tpl); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.templateRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) ListPDFTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateRepo.FindAllPDF(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) UpsertPDFTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl entity.PDFTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if tpl.Key == "" || tpl.FileURL == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "key et file_url sont obligatoires")
		return
	}
	tpl.UpdatedAt = time.Now()

	if err := h.templateRepo.UpsertPDF(r.Context(), &tpl); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) DeletePDFTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.templateRepo.DeletePDF(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetArgumentaire renvoie le document d'argumentaire courant, 404 tant
// qu'aucun n'a été publié.
func (h *TemplateHandler) GetArgumentaire(w http.ResponseWriter, r *http.Request) {
	doc, err := h.templateRepo.FindArgumentaire(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	if doc == nil {
		writeErrorResponse(w, http.StatusNotFound, "ARGUMENTAIRE_NOT_FOUND", "aucun argumentaire publié")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// UpsertArgumentaire remplace le document courant.
func (h *TemplateHandler) UpsertArgumentaire(w http.ResponseWriter, r *http.Request) {
	var doc entity.ArgumentaireDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if doc.Title == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "title est obligatoire")
		return
	}

	if err := h.templateRepo.UpsertArgumentaire(r.Context(), &doc); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// SendEmail publie la demande d'envoi en file; le worker rend le modèle,
// envoie et trace l'historique.
func (h *TemplateHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	output, err := h.SendEmailUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordEmailQueued()

	writeJSON(w, http.StatusAccepted, output)
}

// EmailHistory: toutes les tentatives d'envoi pour un client, échecs compris.
func (h *TemplateHandler) EmailHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	history, err := h.historyRepo.FindByClientID(r.Context(), clientID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, history)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/preventia/duerp-crm/internal/entity"
)

type StatusHandler struct {
	statusRepo entity.StatusRepositoryInterface
}

func NewStatusHandler(statusRepo entity.StatusRepositoryInterface) *StatusHandler {
	return &StatusHandler{statusRepo: statusRepo}
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusRepo.FindAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}

func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var status entity.Status
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if status.Name == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "le nom du statut est obligatoire")
		return
	}

	if err := h.statusRepo.Create(r.Context(), &status); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, status)
}

func (h *StatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var status entity.Status
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	status.ID = id

	if err := h.statusRepo.Update(r.Context(), &status); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Delete détache d'abord les fiches qui portaient ce statut (elles
// retombent sur "Aucun statut"), puis supprime l'étiquette.
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.statusRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

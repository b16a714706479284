package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/preventia/duerp-crm/internal/entity"
)

type ClientHandler struct {
	clientRepo entity.ClientRepositoryInterface
}

func NewClientHandler(clientRepo entity.ClientRepositoryInterface) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientRepo.FindAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	client, err := h.clientRepo.FindByID(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "CLIENT_NOT_FOUND", "client introuvable")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// Create est la saisie directe d'un client, sans passer par un lead.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var client entity.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if err := client.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.clientRepo.Create(r.Context(), &client); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			writeErrorResponse(w, http.StatusConflict, "EMAIL_EXISTS", err.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var client entity.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	client.ID = id

	if err := client.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.clientRepo.Update(r.Context(), &client); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if err := h.clientRepo.SetStatus(r.Context(), id, req.StatusID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

// SetPassword pose ou remplace le mot de passe de l'espace client. Le
// stockage reste en clair pour compatibilité avec les comptes existants.
func (h *ClientHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var req SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "mot de passe vide")
		return
	}

	if err := h.clientRepo.SetPassword(r.Context(), id, req.Password); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.clientRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

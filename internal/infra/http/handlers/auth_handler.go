package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/preventia/duerp-crm/internal/presence"
	"github.com/preventia/duerp-crm/internal/usecase"
)

type AuthHandler struct {
	LoginUC *usecase.LoginUseCase
	Tracker *presence.Tracker
}

func NewAuthHandler(loginUC *usecase.LoginUseCase, tracker *presence.Tracker) *AuthHandler {
	return &AuthHandler{LoginUC: loginUC, Tracker: tracker}
}

// Login résout l'identité (admin, vendeur ou client) et émet le token.
// La connexion vaut premier battement de présence.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	output, err := h.LoginUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	h.Tracker.Heartbeat(r.Context(), output.Kind, output.ID)

	writeJSON(w, http.StatusOK, output)
}

type LookupRequest struct {
	Email string `json:"email"`
}

// Lookup expose la résolution d'identité seule (pré-remplissage du
// formulaire de connexion côté UI).
func (h *AuthHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	identity, err := h.LoginUC.Lookup(r.Context(), req.Email)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"kind": string(identity.Kind)})
}

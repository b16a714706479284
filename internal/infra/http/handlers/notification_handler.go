package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/notify"
)

type NotificationHandler struct {
	notifier   *notify.Notifier
	sellerRepo entity.SellerRepositoryInterface
}

func NewNotificationHandler(notifier *notify.Notifier, sellerRepo entity.SellerRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, sellerRepo: sellerRepo}
}

func (h *NotificationHandler) seller(r *http.Request) (*entity.Seller, int, string) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || principal.Kind != entity.KindSeller {
		return nil, http.StatusForbidden, "réservé aux vendeurs"
	}

	seller, err := h.sellerRepo.FindByID(r.Context(), principal.ID)
	if err != nil {
		return nil, http.StatusNotFound, "vendeur introuvable"
	}
	return seller, 0, ""
}

// Poll renvoie les notifications courantes du vendeur connecté: une par
// client avec messages non lus, une pour le chat de travail. Fresh marque
// celles jamais présentées.
func (h *NotificationHandler) Poll(w http.ResponseWriter, r *http.Request) {
	seller, status, msg := h.seller(r)
	if seller == nil {
		writeErrorResponse(w, status, "FORBIDDEN", msg)
		return
	}

	notifications, err := h.notifier.Poll(r.Context(), seller.ID, seller.FullName)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

// ClearBadge: ouverture du panneau, toutes les conversations notifiées
// passent lues d'un coup.
func (h *NotificationHandler) ClearBadge(w http.ResponseWriter, r *http.Request) {
	seller, status, msg := h.seller(r)
	if seller == nil {
		writeErrorResponse(w, status, "FORBIDDEN", msg)
		return
	}

	notifications, err := h.notifier.Poll(r.Context(), seller.ID, seller.FullName)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	h.notifier.ClearBadge(r.Context(), notifications, entity.KindSeller)

	w.WriteHeader(http.StatusNoContent)
}

type DismissRequest struct {
	Channel        entity.Channel `json:"channel"`
	ConversationID int64          `json:"conversation_id"`
}

// Dismiss marque lue la conversation d'une seule notification.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	seller, status, msg := h.seller(r)
	if seller == nil {
		writeErrorResponse(w, status, "FORBIDDEN", msg)
		return
	}

	var req DismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if err := h.notifier.Dismiss(r.Context(), req.Channel, req.ConversationID, entity.KindSeller); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

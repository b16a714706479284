package handlers

import (
	"net/http"

	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/presence"
)

type PresenceHandler struct {
	tracker *presence.Tracker
}

func NewPresenceHandler(tracker *presence.Tracker) *PresenceHandler {
	return &PresenceHandler{tracker: tracker}
}

// Heartbeat: battement périodique du navigateur. Toujours 204, un échec
// d'écriture est rattrapé par le battement suivant.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "session absente")
		return
	}

	h.tracker.Heartbeat(r.Context(), principal.Kind, principal.ID)
	middleware.RecordHeartbeat()

	w.WriteHeader(http.StatusNoContent)
}

// Offline: beacon best-effort envoyé à la fermeture d'onglet. Si le beacon
// se perd, le reaper basculera l'identité hors-ligne de lui-même.
func (h *PresenceHandler) Offline(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "session absente")
		return
	}

	h.tracker.Offline(r.Context(), principal.Kind, principal.ID)

	w.WriteHeader(http.StatusNoContent)
}

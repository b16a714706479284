package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/usecase"
)

type LeadHandler struct {
	leadRepo    entity.LeadRepositoryInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{
		leadRepo:    leadRepo,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min par IP
	}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CaptureLead est l'endpoint public du formulaire de contact. Protégé par
// rate limit IP; tout le reste du module est derrière authentification.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Trop de requêtes. Réessayez plus tard.",
		})
		return
	}

	var input usecase.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "JSON invalide",
		})
		return
	}

	if errs := usecase.ValidateLeadInput(input); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: errs[0].Message,
		})
		return
	}

	lead := leadFromInput(input)
	lead.Source = "formulaire"

	if err := h.leadRepo.Create(ctx, lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Enregistrement impossible",
		})
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{Success: true})
}

// List renvoie les leads de la vue demandée: ?bulk_imported=true pour la
// table des imports en masse, sinon les leads classiques.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	bulkImported := r.URL.Query().Get("bulk_imported") == "true"

	leads, err := h.leadRepo.FindAll(r.Context(), bulkImported)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	lead, err := h.leadRepo.FindByID(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "lead introuvable")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// Create est la saisie staff: mêmes validations que la capture publique,
// mais le vendeur et les champs de qualification sont acceptés.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if errs := usecase.ValidateLeadInput(input); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	lead := leadFromInput(input)
	if err := h.leadRepo.Create(r.Context(), lead); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var input usecase.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if errs := usecase.ValidateLeadInput(input); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	lead := leadFromInput(input)
	lead.ID = id

	if err := h.leadRepo.Update(r.Context(), lead); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

type SetStatusRequest struct {
	StatusID *int64 `json:"status_id"`
}

// SetStatus accepte un status_id nul: retour à "Aucun statut".
func (h *LeadHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	if err := h.leadRepo.SetStatus(r.Context(), id, req.StatusID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type DeleteLeadsRequest struct {
	LeadIDs []int64 `json:"lead_ids"`
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteLeadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if len(req.LeadIDs) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_SELECTION", "aucun lead sélectionné")
		return
	}

	if err := h.leadRepo.DeleteByIDs(r.Context(), req.LeadIDs); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func leadFromInput(input usecase.LeadInput) *entity.Lead {
	return &entity.Lead{
		Email:          input.Email,
		FullName:       input.FullName,
		Prenom:         input.Prenom,
		Nom:            input.Nom,
		Phone:          input.Phone,
		Portable:       input.Portable,
		CompanyName:    input.CompanyName,
		Siret:          input.Siret,
		Activite:       input.Activite,
		Adresse:        input.Adresse,
		Ville:          input.Ville,
		CodePostal:     input.CodePostal,
		Pays:           input.Pays,
		Vendeur:        input.Vendeur,
		Consultant:     input.Consultant,
		Source:         input.Source,
		Qualification:  input.Qualification,
		StatusID:       input.StatusID,
		ClientPassword: input.ClientPassword,
		BulkImported:   input.BulkImported,
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

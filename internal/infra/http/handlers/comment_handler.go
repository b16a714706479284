package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
)

type CommentHandler struct {
	commentRepo entity.CommentRepositoryInterface
}

func NewCommentHandler(commentRepo entity.CommentRepositoryInterface) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo}
}

// ListByLead: les commentaires d'une fiche, du plus ancien au plus récent.
func (h *CommentHandler) ListByLead(w http.ResponseWriter, r *http.Request) {
	leadID, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	comments, err := h.commentRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type CreateCommentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	leadID, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Body == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "commentaire vide")
		return
	}

	comment := &entity.Comment{
		LeadID:     leadID,
		AuthorName: req.AuthorName,
		Body:       req.Body,
		CreatedAt:  time.Now(),
	}

	if err := h.commentRepo.Create(r.Context(), comment); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.commentRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
)

// SellerHandler gère le référentiel des vendeurs (administration).
type SellerHandler struct {
	sellerRepo entity.SellerRepositoryInterface
}

func NewSellerHandler(sellerRepo entity.SellerRepositoryInterface) *SellerHandler {
	return &SellerHandler{sellerRepo: sellerRepo}
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellerRepo.FindAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sellers)
}

type SellerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "full_name, email et password sont obligatoires")
		return
	}

	seller := &entity.Seller{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		CreatedAt: time.Now(),
	}

	if err := h.sellerRepo.Create(r.Context(), seller); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, seller)
}

func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var req SellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	seller, err := h.sellerRepo.FindByID(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "SELLER_NOT_FOUND", "vendeur introuvable")
		return
	}

	if req.FullName != "" {
		seller.FullName = req.FullName
	}
	if req.Email != "" {
		seller.Email = req.Email
	}
	if req.Password != "" {
		seller.Password = req.Password
	}

	if err := h.sellerRepo.Update(r.Context(), seller); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.sellerRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminHandler: même surface que les vendeurs, sur la table admins.
type AdminHandler struct {
	adminRepo entity.AdminRepositoryInterface
}

func NewAdminHandler(adminRepo entity.AdminRepositoryInterface) *AdminHandler {
	return &AdminHandler{adminRepo: adminRepo}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminRepo.FindAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "full_name, email et password sont obligatoires")
		return
	}

	admin := &entity.Admin{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		CreatedAt: time.Now(),
	}

	if err := h.adminRepo.Create(r.Context(), admin); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	var req SellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	admin, err := h.adminRepo.FindByID(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "ADMIN_NOT_FOUND", "admin introuvable")
		return
	}

	if req.FullName != "" {
		admin.FullName = req.FullName
	}
	if req.Email != "" {
		admin.Email = req.Email
	}
	if req.Password != "" {
		admin.Password = req.Password
	}

	if err := h.adminRepo.Update(r.Context(), admin); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id invalide")
		return
	}

	if err := h.adminRepo.Delete(r.Context(), id); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

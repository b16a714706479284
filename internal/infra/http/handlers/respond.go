package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/preventia/duerp-crm/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

// writeUsecaseError mappe les erreurs métier sur 4xx, le reste sur 500.
func writeUsecaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case "INVALID_CREDENTIALS":
			status = http.StatusUnauthorized
		case "CLIENT_NOT_FOUND", "LEAD_NOT_FOUND":
			status = http.StatusNotFound
		case "TRANSFER_FAILED":
			status = http.StatusUnprocessableEntity
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	if te, ok := err.(*usecase.TechnicalError); ok {
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
		return
	}

	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

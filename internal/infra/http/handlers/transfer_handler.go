package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/usecase"
)

type TransferHandler struct {
	TransferUC *usecase.TransferLeadsUseCase
}

func NewTransferHandler(uc *usecase.TransferLeadsUseCase) *TransferHandler {
	return &TransferHandler{TransferUC: uc}
}

// Transfer convertit la sélection de leads en clients. La réponse porte le
// sous-ensemble en échec et la liste clients rechargée.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var input usecase.TransferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	output, err := h.TransferUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordTransfer(0, len(input.LeadIDs))
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordTransfer(output.CreatedCount, len(output.Failed))

	writeJSON(w, http.StatusOK, output)
}

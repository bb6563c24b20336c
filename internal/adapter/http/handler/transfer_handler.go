package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/adapter/http/middleware"
	"github.com/tallyhq/tallybook/internal/infrastructure/metrics"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// TransferHandler handles transfer record endpoints.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create handles POST /transfers.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.transferUC.CreateTransfer(r.Context(), req.ToUseCaseInput(actorID))
	if err != nil {
		metrics.MovementRejected(metrics.KindTransfer)
		writeDomainError(w, err)
		return
	}

	metrics.MovementCreated(metrics.KindTransfer)
	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(record))
}

// Get handles GET /transfers/{id}.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.transferUC.GetTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(record))
}

// Update handles PATCH /transfers/{id}.
func (h *TransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.UpdateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.transferUC.UpdateTransfer(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), actorID))
	if err != nil {
		metrics.MovementRejected(metrics.KindTransfer)
		writeDomainError(w, err)
		return
	}

	metrics.MovementUpdated(metrics.KindTransfer)
	writeJSON(w, http.StatusOK, dto.TransferFromDomain(record))
}

// Delete handles DELETE /transfers/{id}.
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.transferUC.DeleteTransfer(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.MovementDeleted(metrics.KindTransfer)
	w.WriteHeader(http.StatusNoContent)
}

// ListByAccount handles GET /accounts/{id}/transfers.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.transferUC.ListTransfersByAccount(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(records))
}

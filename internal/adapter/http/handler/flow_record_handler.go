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

// FlowRecordHandler handles flow record endpoints.
type FlowRecordHandler struct {
	flowUC *usecase.FlowRecordUseCase
}

// NewFlowRecordHandler creates a new FlowRecordHandler.
func NewFlowRecordHandler(flowUC *usecase.FlowRecordUseCase) *FlowRecordHandler {
	return &FlowRecordHandler{flowUC: flowUC}
}

// Create handles POST /flow-records.
func (h *FlowRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateFlowRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.flowUC.CreateFlowRecord(r.Context(), req.ToUseCaseInput(actorID))
	if err != nil {
		metrics.MovementRejected(metrics.KindFlow)
		writeDomainError(w, err)
		return
	}

	metrics.MovementCreated(metrics.KindFlow)
	writeJSON(w, http.StatusCreated, dto.FlowRecordFromDomain(record))
}

// Get handles GET /flow-records/{id}.
func (h *FlowRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.flowUC.GetFlowRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FlowRecordFromDomain(record))
}

// Update handles PATCH /flow-records/{id}.
func (h *FlowRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.UpdateFlowRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.flowUC.UpdateFlowRecord(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), actorID))
	if err != nil {
		metrics.MovementRejected(metrics.KindFlow)
		writeDomainError(w, err)
		return
	}

	metrics.MovementUpdated(metrics.KindFlow)
	writeJSON(w, http.StatusOK, dto.FlowRecordFromDomain(record))
}

// Delete handles DELETE /flow-records/{id}.
func (h *FlowRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.flowUC.DeleteFlowRecord(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		writeDomainError(w, err)
		return
	}

	metrics.MovementDeleted(metrics.KindFlow)
	w.WriteHeader(http.StatusNoContent)
}

// ListByAccount handles GET /accounts/{id}/flow-records.
func (h *FlowRecordHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.flowUC.ListFlowRecordsByAccount(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FlowRecordsFromDomain(records))
}

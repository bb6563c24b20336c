package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// BalanceHandler answers balance queries from the checkpoint series.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Current handles GET /accounts/{id}/balance. Without a date parameter it
// returns today's balance; with date=YYYY-MM-DD it answers as of that day.
func (h *BalanceHandler) Current(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	if r.URL.Query().Get("date") == "" {
		balance, err := h.balanceUC.CurrentBalance(r.Context(), accountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.BalanceResponse{
			AccountID: accountID,
			Date:      dto.NewDate(time.Now().UTC()),
			Balance:   balance,
		})
		return
	}

	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	balance, err := h.balanceUC.BalanceAt(r.Context(), accountID, date.Time)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Date:      date,
		Balance:   balance,
	})
}

// Series handles GET /accounts/{id}/balance/series?from=...&to=...
func (h *BalanceHandler) Series(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid range", err.Error())
		return
	}

	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid range", err.Error())
		return
	}

	if to.Before(from.Time) {
		writeError(w, http.StatusBadRequest, "invalid range", "to precedes from")
		return
	}

	series, err := h.balanceUC.GetBalanceSeries(r.Context(), chi.URLParam(r, "id"), from.Time, to.Time)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSeriesFromUseCase(series))
}

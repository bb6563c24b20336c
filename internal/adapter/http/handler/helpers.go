package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to a status code and writes it. The
// negative-balance rejection carries the offending account and date, so its
// message goes out verbatim.
func writeDomainError(w http.ResponseWriter, err error) {
	if domain.IsNegativeBalance(err) {
		writeError(w, http.StatusUnprocessableEntity, "balance would go negative", err.Error())
		return
	}

	writeError(w, mapDomainError(err), err.Error(), "")
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrFlowRecordNotFound),
		errors.Is(err, domain.ErrTransferRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBookMembershipDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrCheckpointConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrCrossBookAccounts),
		errors.Is(err, domain.ErrCrossBookTag),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSignRuleViolation),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidScale),
		errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a required "YYYY-MM-DD" query parameter.
func parseDateQuery(r *http.Request, key string) (dto.Date, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return dto.Date{}, errors.New("missing query parameter " + key)
	}

	return dto.ParseDate(val)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/infrastructure/auth"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// AuthHandler issues tokens for registered users.
type AuthHandler struct {
	jwtManager *auth.JWTManager
	bookUC     *usecase.BookUseCase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtManager *auth.JWTManager, bookUC *usecase.BookUseCase) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
		bookUC:     bookUC,
	}
}

// TokenRequest represents a token request.
// TODO: replace user-id token issuance with real credential checks once the
// service stops fronting trusted internal callers only.
type TokenRequest struct {
	UserID string `json:"user_id"`
}

// TokenResponse represents a token response.
type TokenResponse struct {
	Token string            `json:"token"`
	User  *dto.UserResponse `json:"user"`
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.bookUC.GetUser(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown user", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

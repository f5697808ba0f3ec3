package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gw2hardcore/contest-server/internal/usecase"
)

type registerAccountRequest struct {
	APIKey      string `json:"api_key" validate:"required,min=8"`
	AccountName string `json:"account_name" validate:"omitempty,max=100"`
}

type authenticateRequest struct {
	Token string `json:"token" validate:"required"`
}

// Register binds a game API key to a new contest account and hands the
// contest token back. This is the only response that ever carries the token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	var req registerAccountRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.registrationService.Register(ctx, req.APIKey, req.AccountName)
	if err != nil {
		h.logger.ErrorContext(ctx, "account registration failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "account registered", "account", created.AccountName)
	writeSuccess(ctx, w, http.StatusCreated, mapAccountToDTO(created, true))
}

// Authenticate resolves a contest token to its account without issuing
// anything new.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Authenticate")
	defer span.End()

	var req authenticateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	acct, err := h.registrationService.Authenticate(ctx, req.Token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapAccountToDTO(acct, false))
}

// Me returns the account resolved by the bearer contest token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	acct, ok := accountFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no authenticated account", usecase.ErrUnauthorized))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapAccountToDTO(acct, false))
}

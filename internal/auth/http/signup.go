package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouselabs/gatehouse/internal/auth/service"
	"github.com/gatehouselabs/gatehouse/pkg/authsdk"
	"github.com/gatehouselabs/gatehouse/pkg/httpx"
	"github.com/gatehouselabs/gatehouse/pkg/slogx"
)

type SignupHandler struct {
	UserService *service.UserService
}

// ServeHTTP registers a new account. The created user is returned without
// its password hash, and the permission set is always the signup default
// regardless of what the client sent.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("request body must be valid JSON").WriteError(w)
		return
	}

	user, err := h.UserService.Signup(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			authsdk.ErrValidation.WithDescription(err.Error()).WriteError(w)
		case errors.Is(err, service.ErrEmailExists):
			authsdk.ErrDuplicateEmail.WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	log.Info("user registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, userResponse(user))
}

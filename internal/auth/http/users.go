package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gatehouselabs/gatehouse/internal/auth/domain"
	"github.com/gatehouselabs/gatehouse/internal/auth/service"
	"github.com/gatehouselabs/gatehouse/internal/auth/store"
	"github.com/gatehouselabs/gatehouse/pkg/authsdk"
	"github.com/gatehouselabs/gatehouse/pkg/httpx"
	"github.com/gatehouselabs/gatehouse/pkg/slogx"
)

// UsersHandler serves the privileged user management endpoints. The router
// fronts every method with authentication and the permission checks, so by
// the time these run the caller is already authorized.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.UserService.CountUsers(r.Context(), filterFromQuery(r))
	if err != nil {
		slogx.FromContext(r.Context()).Error("count users failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CountResponse{Count: count})
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context(), filterFromQuery(r))
	if err != nil {
		slogx.FromContext(r.Context()).Error("list users failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	responses := make([]authsdk.UserResponse, len(users))
	for i, u := range users {
		responses[i] = userResponse(u)
	}
	httpx.WriteJSON(w, http.StatusOK, responses)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("get user failed", "user_id", id, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

func (h *UsersHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req authsdk.ReplaceUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("request body must be valid JSON").WriteError(w)
		return
	}

	user, err := h.UserService.ReplaceUser(ctx, domain.User{
		ID:          id,
		Email:       req.Email,
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		writeUserError(w, log, err)
		return
	}

	// An explicit password in the request re-hashes and swaps the stored
	// hash; an absent one leaves it untouched.
	if req.Password != "" {
		if err := h.UserService.ChangePassword(ctx, id, req.Password); err != nil {
			writeUserError(w, log, err)
			return
		}
	}

	log.Info("user replaced", "user_id", id)
	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("delete user failed", "user_id", id, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Info("user deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeUserError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		authsdk.ErrValidation.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrEmailExists):
		authsdk.ErrDuplicateEmail.WriteError(w)
	default:
		log.Error("user operation failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		authsdk.ErrInvalidRequest.WithDescription("user id must be a positive integer").WriteError(w)
		return 0, false
	}
	return id, true
}

func filterFromQuery(r *http.Request) store.UserFilter {
	q := r.URL.Query()

	filter := store.UserFilter{
		EmailContains: q.Get("email_contains"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func userResponse(u domain.User) authsdk.UserResponse {
	permissions := u.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	resp := authsdk.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: permissions,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !u.UpdatedAt.IsZero() {
		resp.UpdatedAt = u.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

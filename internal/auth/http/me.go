package http

import (
	"net/http"

	"github.com/gatehouselabs/gatehouse/pkg/authsdk"
	"github.com/gatehouselabs/gatehouse/pkg/httpx"
)

type MeHandler struct{}

// ServeHTTP describes the caller as the token sees them. The response is
// built fresh from the verified claims so nothing in it aliases internal
// state, and permission edits after issuance are invisible here.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	response := authsdk.MeResponse{
		ID:          claims.UID,
		Permissions: append([]string(nil), claims.Permissions...),
	}
	if response.Permissions == nil {
		response.Permissions = []string{}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

package httpx

import (
	"net/http"
	"strings"
)

// RequirePermissions denies the request unless the verified token carries
// every listed permission. The wrapped handler never runs on a denial. With
// no arguments it only requires that authentication succeeded.
func RequirePermissions(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := make(map[string]struct{})
			for _, p := range permissionsFromCtx(r.Context()) {
				have[p] = struct{}{}
			}

			for _, req := range required {
				if _, ok := have[req]; !ok {
					writePermissionError(w, required...)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for insufficient permissions.
func writePermissionError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":             "insufficient_permission",
		"error_description": "the token does not carry the required permissions",
	})
}

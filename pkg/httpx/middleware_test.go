package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
	"github.com/gatehouselabs/gatehouse/pkg/httpx"
	"github.com/gatehouselabs/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "gatehouse-test"

func newSignerVerifier(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return signer, jwtx.NewCommonEdDSA(keys, testIssuer)
}

func mintToken(t *testing.T, signer jwtx.Signer, uid int64, perms []string, ttl time.Duration) string {
	t.Helper()

	token, err := signer.Sign(jwtx.NewAccessClaims(uid, perms, ttl, testIssuer, time.Now().UTC()))
	require.NoError(t, err)
	return token
}

// guarded builds the standard protected chain and counts handler invocations
// so tests can assert the body never ran on a denial.
func guarded(v jwtx.Verifier, invoked *int, required ...string) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*invoked++
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(inner,
		httpx.AuthnMiddleware(v),
		httpx.RequirePermissions(required...),
	)
}

func TestAuthn_MissingToken(t *testing.T) {
	t.Parallel()

	_, verifier := newSignerVerifier(t)

	var invoked int
	h := guarded(verifier, &invoked, "UserManagement")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing_token")
	require.Zero(t, invoked, "handler must not run without a token")
}

func TestAuthn_EmptyBearerToken(t *testing.T) {
	t.Parallel()

	_, verifier := newSignerVerifier(t)

	var invoked int
	h := guarded(verifier, &invoked)

	// "Bearer" followed by nothing is an absent credential, not an invalid
	// one.
	for _, header := range []string{"Bearer ", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "missing_token")
		require.Zero(t, invoked)
	}
}

func TestAuthn_InvalidToken(t *testing.T) {
	t.Parallel()

	_, verifier := newSignerVerifier(t)

	var invoked int
	h := guarded(verifier, &invoked)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.value")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_token")
	require.Zero(t, invoked)
}

func TestAuthn_ExpiredToken(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)

	var invoked int
	h := guarded(verifier, &invoked)

	token, err := signer.Sign(jwtx.NewAccessClaims(1, nil, time.Minute, testIssuer,
		time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "expired_token")
	require.Zero(t, invoked)
}

func TestRequirePermissions_SubsetRule(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)

	tests := []struct {
		name     string
		have     []string
		required []string
		allowed  bool
	}{
		{"exact match", []string{"UserManagement"}, []string{"UserManagement"}, true},
		{"superset allowed", []string{"UserManagement", "UserBasic"}, []string{"UserBasic"}, true},
		{"all required present", []string{"UserManagement", "UserBasic"}, []string{"UserManagement", "UserBasic"}, true},
		{"one of two missing", []string{"UserBasic"}, []string{"UserManagement", "UserBasic"}, false},
		{"disjoint denied", []string{"AuthFeatures", "GetBlogs"}, []string{"UserManagement"}, false},
		{"empty claims denied", nil, []string{"UserBasic"}, false},
		{"no requirement always allowed", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invoked int
			h := guarded(verifier, &invoked, tt.required...)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+mintToken(t, signer, 1, tt.have, time.Minute))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if tt.allowed {
				require.Equal(t, http.StatusOK, rec.Code)
				require.Equal(t, 1, invoked)
			} else {
				require.Equal(t, http.StatusForbidden, rec.Code)
				require.Contains(t, rec.Body.String(), "insufficient_permission")
				require.Zero(t, invoked, "denied calls must never reach the handler")
			}
		})
	}
}

func TestAuthn_InjectsClaimsIntoContext(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)

	var gotUID int64
	var gotClaims jwtx.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = httpx.UserIDFromContext(r.Context())
		gotClaims, _ = httpx.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(inner, httpx.AuthnMiddleware(verifier))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, signer, 99, []string{"AuthFeatures"}, time.Minute))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(99), gotUID)
	require.Equal(t, []string{"AuthFeatures"}, gotClaims.Permissions)
}

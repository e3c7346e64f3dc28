package authsdk

import "github.com/gatehouselabs/gatehouse/pkg/jwtx"

// ErrorResponse is the wire shape of a failure, used by the SDK client to
// parse error bodies. Server code writes these through APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// SignupRequest is the body of POST /v1/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the successful login response.
type TokenResponse struct {
	// AccessToken is the signed JWT used to authenticate API requests.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// UserResponse is the wire shape of a user. It never carries the password
// hash.
type UserResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// MeResponse describes the authenticated caller as seen by the token, not
// the store: the id and permissions come from the verified claims.
type MeResponse struct {
	ID          int64    `json:"id"`
	Permissions []string `json:"permissions"`
}

// ReplaceUserRequest is the body of PUT /v1/users/{id}. When Password is
// set the stored hash is replaced with a hash of the new value.
type ReplaceUserRequest struct {
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions"`
	Password    string   `json:"password,omitempty"`
}

// CountResponse is the body of GET /v1/users/count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks carries per-dependency readiness results.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the body of the JWKS discovery endpoint.
type JWKSResponse = jwtx.JWKS

package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a thin client for the Gatehouse authentication service. The
// zero value is not usable; construct it with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	accessToken string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetAccessToken attaches a bearer token to every subsequent request.
// Login calls this automatically.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// Signup registers a new account and returns the created user.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token and remembers it for
// subsequent authenticated calls.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var token TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Email:    email,
		Password: password,
	}, &token)
	if err != nil {
		return nil, err
	}
	c.accessToken = token.AccessToken
	return &token, nil
}

// Me returns the identity and permission snapshot of the current token.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var me MeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// CountUsers returns how many users match the optional email filter.
func (c *Client) CountUsers(ctx context.Context, emailContains string) (int64, error) {
	path := "/v1/users/count"
	if emailContains != "" {
		path += "?email_contains=" + url.QueryEscape(emailContains)
	}

	var count CountResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &count); err != nil {
		return 0, err
	}
	return count.Count, nil
}

// ListUsers returns users matching the optional filter.
func (c *Client) ListUsers(ctx context.Context, emailContains string, limit, offset int64) ([]UserResponse, error) {
	q := url.Values{}
	if emailContains != "" {
		q.Set("email_contains", emailContains)
	}
	if limit > 0 {
		q.Set("limit", strconv.FormatInt(limit, 10))
	}
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}

	path := "/v1/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var users []UserResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	var user UserResponse
	path := "/v1/users/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ReplaceUser overwrites a user's mutable fields.
func (c *Client) ReplaceUser(ctx context.Context, id int64, req ReplaceUserRequest) (*UserResponse, error) {
	var user UserResponse
	path := "/v1/users/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/users/"+strconv.FormatInt(id, 10), nil, nil)
}

// Health probes the readiness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out. Non-2xx responses come back as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var wire ErrorResponse
	if err := json.Unmarshal(raw, &wire); err != nil || wire.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response: status %d", resp.StatusCode),
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        wire.Error,
		Description: wire.ErrorDescription,
	}
}

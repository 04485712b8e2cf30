package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/logging"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

// HTTPClient talks to the backend over plain HTTP. Endpoint paths keep their
// trailing slashes; the backend treats them as significant.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://localhost:8000". The timeout caps every request; individual calls
// usually carry a tighter context deadline. A zero timeout means no cap.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout/", accessToken, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword, confirmPassword string) (*ChangePasswordResponse, error) {
	body := map[string]string{
		"old_password":  oldPassword,
		"new_password":  newPassword,
		"new_password2": confirmPassword,
	}
	var out ChangePasswordResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/change-password/", accessToken, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CheckToken(ctx context.Context, token string) (*TokenInfo, error) {
	path := fmt.Sprintf("/api/auth/check-token/%s/", url.PathEscape(token))
	var out TokenInfo
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*VerifyEmailResponse, error) {
	path := fmt.Sprintf("/api/auth/verify-email/%s/", url.PathEscape(token))
	var out VerifyEmailResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegenerateVerification(ctx context.Context, email string) (*RegenerateResponse, error) {
	path := fmt.Sprintf("/api/auth/regenerate-verification/%s/", url.PathEscape(email))
	var out RegenerateResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/auth/resend-verification/", "", body, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/", "", body, nil)
}

func (c *HTTPClient) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) (*ResetConfirmResponse, error) {
	body := map[string]string{
		"token":            token,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	var out ResetConfirmResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/password-reset-confirm/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request. An empty accessToken means the request is sent
// anonymously; a non-empty one is attached as a bearer header for this call
// only. Transport failures and non-2xx statuses come back as *Error.
func (c *HTTPClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classify(resp.StatusCode, data)
		c.log.Debug(ctx, "api call failed",
			"method", method, "path", path,
			"status", resp.StatusCode, "kind", string(apiErr.Kind))
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// transportError maps failures with no usable response onto the taxonomy:
// deadline/timeout conditions become KindTimeout, everything else
// KindNetwork.
func transportError(err error) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Detail: err.Error()}
}

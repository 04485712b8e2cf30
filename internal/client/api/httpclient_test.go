package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchview/client/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 0, logging.NewSlogLogger(slog.New(slog.DiscardHandler)))
}

func decodeBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHTTPClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		body := decodeBody(t, r)
		assert.Equal(t, "jdoe", body["username"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access": "acc", "refresh": "ref",
			"user": {"id": 1, "username": "jdoe", "email": "jdoe@example.com"}}`)
	})

	resp, err := c.Login(context.Background(), "jdoe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc", resp.Access)
	assert.Equal(t, "ref", resp.Refresh)
	assert.Equal(t, "jdoe", resp.User.Username)
}

func TestHTTPClient_Login_VerificationRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail": "Email verification required", "requires_verification": true}`)
	})

	_, err := c.Login(context.Background(), "jdoe", "secret")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindVerificationRequired))
}

func TestHTTPClient_Register(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register/", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, "jdoe", body["username"])
		assert.Equal(t, "jdoe@example.com", body["email"])
		assert.Equal(t, body["password"], body["password2"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message": "ok", "requires_verification": true,
			"user": {"id": 1, "username": "jdoe", "email": "jdoe@example.com"}}`)
	})

	resp, err := c.Register(context.Background(), RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "pw", Password2: "pw",
	})
	require.NoError(t, err)
	assert.True(t, resp.RequiresVerification)
}

func TestHTTPClient_AuthorizedCalls(t *testing.T) {
	t.Run("me sends bearer token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/auth/me/", r.URL.Path)
			assert.Equal(t, "Bearer acc-token", r.Header.Get("Authorization"))
			io.WriteString(w, `{"id": 7, "username": "jdoe", "email": "jdoe@example.com"}`)
		})

		user, err := c.Me(context.Background(), "acc-token")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("logout sends bearer token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/logout/", r.URL.Path)
			assert.Equal(t, "Bearer acc-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, c.Logout(context.Background(), "acc-token"))
	})

	t.Run("change password sends bearer token and body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/change-password/", r.URL.Path)
			assert.Equal(t, "Bearer acc-token", r.Header.Get("Authorization"))

			body := decodeBody(t, r)
			assert.Equal(t, "old", body["old_password"])
			assert.Equal(t, "new", body["new_password"])
			assert.Equal(t, "new", body["new_password2"])

			io.WriteString(w, `{"detail": "Password changed", "access": "acc2", "refresh": "ref2"}`)
		})

		resp, err := c.ChangePassword(context.Background(), "acc-token", "old", "new", "new")
		require.NoError(t, err)
		assert.Equal(t, "acc2", resp.Access)
	})
}

func TestHTTPClient_TokenCalls_AreAnonymous(t *testing.T) {
	const token = "123e4567-e89b-12d3-a456-426614174000"

	t.Run("check token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/check-token/"+token+"/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			io.WriteString(w, `{"token_valid": true, "is_verified": false,
				"user": {"username": "jdoe", "email": "jdoe@example.com"}}`)
		})

		info, err := c.CheckToken(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, info.TokenValid)
		assert.False(t, info.IsVerified)
		require.NotNil(t, info.User)
		assert.Equal(t, "jdoe", info.User.Username)
	})

	t.Run("verify email", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/verify-email/"+token+"/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			io.WriteString(w, `{"detail": "Email verified", "access": "acc", "refresh": "ref"}`)
		})

		resp, err := c.VerifyEmail(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "acc", resp.Access)
	})

	t.Run("regenerate verification escapes the email", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/regenerate-verification/jdoe@example.com/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			io.WriteString(w, `{"verification_url": "http://example.com/verify-email/abc"}`)
		})

		resp, err := c.RegenerateVerification(context.Background(), "jdoe@example.com")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/verify-email/abc", resp.VerificationURL)
	})

	t.Run("confirm password reset", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/password-reset-confirm/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))

			body := decodeBody(t, r)
			assert.Equal(t, token, body["token"])
			assert.Equal(t, "NewPass1!", body["new_password"])
			assert.Equal(t, "NewPass1!", body["confirm_password"])

			io.WriteString(w, `{"detail": "ok", "access": "acc", "refresh": "ref"}`)
		})

		resp, err := c.ConfirmPasswordReset(context.Background(), token, "NewPass1!", "NewPass1!")
		require.NoError(t, err)
		assert.Equal(t, "ref", resp.Refresh)
	})
}

func TestHTTPClient_ResendAndReset(t *testing.T) {
	t.Run("resend verification", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/resend-verification/", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, "jdoe@example.com", body["email"])
			io.WriteString(w, `{"detail": "sent"}`)
		})

		require.NoError(t, c.ResendVerification(context.Background(), "jdoe@example.com"))
	})

	t.Run("request password reset", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/password-reset/", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, "jdoe@example.com", body["email"])
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, c.RequestPasswordReset(context.Background(), "jdoe@example.com"))
	})
}

func TestHTTPClient_TransportErrors(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		c := NewHTTPClient("http://127.0.0.1:1", 0, logging.NewNopLogger())

		_, err := c.Me(context.Background(), "acc")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindNetwork))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.Me(ctx, "acc")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindTimeout))
	})
}

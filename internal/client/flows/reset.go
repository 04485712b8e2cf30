package flows

import (
	"context"
	"strings"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/nav"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/client/session"
	"github.com/pitchview/client/internal/logging"
)

// ResetState is the password-reset page state.
type ResetState string

const (
	// ResetStateIdle means the token checked out and the form may be
	// submitted.
	ResetStateIdle    ResetState = "idle"
	ResetStateSuccess ResetState = "success"
	ResetStateError   ResetState = "error"
)

// ResetResult is the outcome of a reset-flow step. In the error state the
// only forward path is requesting a new link; there is no in-place retry
// because the token itself is presumed unusable.
type ResetResult struct {
	State      ResetState
	Message    string
	Navigation *nav.Navigation
}

// ResetPassword drives the reset-password page. The token comes from the
// URL path and is used as-is; no normalization applies.
type ResetPassword struct {
	api      api.Client
	sessions session.Store
	notifier notify.Notifier
	log      logging.Logger
}

func NewResetPassword(apiClient api.Client, sessions session.Store, notifier notify.Notifier, log logging.Logger) *ResetPassword {
	return &ResetPassword{api: apiClient, sessions: sessions, notifier: notifier, log: log}
}

// Start validates the reset token. An absent token fails without any
// network call; otherwise exactly one token check is made.
func (f *ResetPassword) Start(ctx context.Context, token string) ResetResult {
	if strings.TrimSpace(token) == "" {
		return ResetResult{
			State:   ResetStateError,
			Message: "Invalid reset link. Please request a new password reset.",
		}
	}

	cctx, cancel := context.WithTimeout(ctx, precheckTimeout)
	defer cancel()

	info, err := f.api.CheckToken(cctx, token)
	if err != nil {
		f.log.Warn(ctx, "reset token validation failed", "error", err)
		f.notifier.Notify(notify.LevelError, "Invalid or expired reset link.")
		return ResetResult{
			State:   ResetStateError,
			Message: "Invalid or expired reset link. Please request a new password reset.",
		}
	}
	// Verification status of the account is irrelevant here; only token
	// validity matters.
	if !info.TokenValid {
		f.notifier.Notify(notify.LevelError, "Invalid reset link.")
		return ResetResult{
			State:   ResetStateError,
			Message: "Invalid reset link. Please request a new password reset.",
		}
	}

	return ResetResult{State: ResetStateIdle}
}

// Submit posts the new password. Mismatched or weak passwords are rejected
// locally and keep the form usable; a confirmed reset stores any returned
// session and schedules the dashboard redirect.
func (f *ResetPassword) Submit(ctx context.Context, token, password, confirm string) ResetResult {
	if password == "" {
		f.notifier.Notify(notify.LevelError, "Please enter a new password")
		return ResetResult{State: ResetStateIdle, Message: "Please enter a new password"}
	}
	if password != confirm {
		f.notifier.Notify(notify.LevelError, "Passwords do not match")
		return ResetResult{State: ResetStateIdle, Message: "Passwords do not match"}
	}
	if !CheckPassword(password).Strong() {
		f.notifier.Notify(notify.LevelError, "Please use a stronger password")
		return ResetResult{State: ResetStateIdle, Message: "Please use a stronger password"}
	}

	resp, err := f.api.ConfirmPasswordReset(ctx, token, password, confirm)
	if err != nil {
		msg := "Failed to reset password. Please try again or request a new reset link."
		if apiErr, ok := api.AsError(err); ok {
			msg = apiErr.Message(msg)
		}
		f.log.Warn(ctx, "password reset failed", "error", err)
		f.notifier.Notify(notify.LevelError, msg)
		return ResetResult{State: ResetStateError, Message: msg}
	}

	f.notifier.Notify(notify.LevelSuccess, "Your password has been reset successfully!")

	if resp.TokenPair.Valid() {
		if err := f.sessions.Set(ctx, resp.TokenPair); err != nil {
			f.log.Warn(ctx, "failed to store session after password reset", "error", err)
		}
	}

	n := nav.ToAfter(nav.RouteDashboard, redirectShort)
	return ResetResult{State: ResetStateSuccess, Navigation: &n}
}

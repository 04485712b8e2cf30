package flows

import (
	"context"
	"regexp"
	"strings"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/nav"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/client/session"
	"github.com/pitchview/client/internal/logging"
)

// emailPattern is deliberately loose: anything of the form a@b.c with no
// whitespace. It gates auto-submission, not account creation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ResendState is the terminal state of a resend attempt.
type ResendState string

const (
	ResendStateSuccess ResendState = "success"
	// ResendStateAlreadyVerified is informational, not an error: the
	// account needs no verification email, only a login.
	ResendStateAlreadyVerified ResendState = "already-verified"
	ResendStateNotFound        ResendState = "not-found"
	ResendStateError           ResendState = "error"
)

// ResendResult is the outcome of one resend attempt. Navigation, when set,
// is the offered shortcut (login or register); the success state never
// navigates so the page can offer "send again" without looping.
type ResendResult struct {
	State      ResendState
	Message    string
	Navigation *nav.Navigation
}

// ResendVerification drives the resend-verification page.
type ResendVerification struct {
	api      api.Client
	sessions session.Store
	notifier notify.Notifier
	log      logging.Logger
}

func NewResendVerification(apiClient api.Client, sessions session.Store, notifier notify.Notifier, log logging.Logger) *ResendVerification {
	return &ResendVerification{api: apiClient, sessions: sessions, notifier: notifier, log: log}
}

// ShouldAutoSubmit decides whether a page mount fires the request without
// user interaction: the URL carried a syntactically valid email and the
// visit is not the landing right after registration. The registration tag
// exists to prevent a double send immediately after account creation.
func (f *ResendVerification) ShouldAutoSubmit(email string, fromRegistration bool) bool {
	return email != "" && ValidEmail(email) && !fromRegistration
}

// Send requests a new verification email and classifies the outcome.
func (f *ResendVerification) Send(ctx context.Context, email string) ResendResult {
	if email == "" {
		return ResendResult{State: ResendStateError, Message: "Please enter your email address"}
	}
	if !ValidEmail(email) {
		return ResendResult{State: ResendStateError, Message: "Please enter a valid email address"}
	}

	err := f.api.ResendVerification(ctx, email)
	if err == nil {
		f.notifier.Notify(notify.LevelSuccess, "Verification email has been sent! Please check your inbox.")
		return ResendResult{State: ResendStateSuccess, Message: "Verification email sent to " + email}
	}

	if apiErr, ok := api.AsError(err); ok {
		if apiErr.Kind == api.KindBadRequest && strings.Contains(apiErr.Detail, "already verified") {
			f.notifier.Notify(notify.LevelInfo, "This email is already verified. You can log in now.")
			n := nav.To(nav.RouteLogin)
			return ResendResult{State: ResendStateAlreadyVerified, Message: apiErr.Detail, Navigation: &n}
		}
		if apiErr.Kind == api.KindNotFound {
			// Keep the email around so the registration form can pre-fill it.
			f.sessions.PutScratch(session.RegistrationEmailKey, email)
			f.notifier.Notify(notify.LevelError, "No account exists with this email address.")
			n := nav.To(nav.RouteRegister)
			return ResendResult{
				State:      ResendStateNotFound,
				Message:    "No account exists with this email address. Please register first.",
				Navigation: &n,
			}
		}

		msg := apiErr.Message("Failed to resend verification email. Please try again.")
		f.notifier.Notify(notify.LevelError, msg)
		return ResendResult{State: ResendStateError, Message: msg}
	}

	f.log.Warn(ctx, "resend verification failed", "error", err)
	msg := "Failed to resend verification email. Please try again."
	f.notifier.Notify(notify.LevelError, msg)
	return ResendResult{State: ResendStateError, Message: msg}
}

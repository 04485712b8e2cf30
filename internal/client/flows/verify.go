package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/client/nav"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/client/session"
	"github.com/pitchview/client/internal/logging"
)

// Per-step deadlines and redirect delays of the verification flow.
const (
	precheckTimeout = 5 * time.Second
	verifyTimeout   = 10 * time.Second
	identityTimeout = 3 * time.Second

	redirectShort      = 3 * time.Second
	redirectLong       = 5 * time.Second
	regenerateRedirect = 2 * time.Second
)

// VerifyState is the terminal state of a verification attempt.
type VerifyState string

const (
	VerifyStateSuccess         VerifyState = "success"
	VerifyStateAlreadyVerified VerifyState = "already-verified"
	VerifyStateError           VerifyState = "error"
)

// VerifyResult is the outcome of running the verification state machine.
type VerifyResult struct {
	State   VerifyState
	Message string

	// ErrorKind and Expired classify the failure when State is error.
	ErrorKind api.Kind
	Expired   bool

	// Identity is whatever account identity could be recovered; its absence
	// only degrades the message, never the state.
	Identity *models.Identity

	Navigation *nav.Navigation
}

// CanRegenerate reports whether the regenerate action is available: an error
// state with a recoverable email.
func (r VerifyResult) CanRegenerate() bool {
	return r.State == VerifyStateError && r.Identity != nil && r.Identity.Email != ""
}

// VerifyEmail drives the email-verification page.
type VerifyEmail struct {
	api      api.Client
	sessions session.Store
	notifier notify.Notifier
	log      logging.Logger
}

func NewVerifyEmail(apiClient api.Client, sessions session.Store, notifier notify.Notifier, log logging.Logger) *VerifyEmail {
	return &VerifyEmail{api: apiClient, sessions: sessions, notifier: notifier, log: log}
}

// Run normalizes the URL token, pre-checks it, performs the verification
// call and maps the outcome onto a terminal state. The pre-check failing or
// timing out never blocks the main attempt.
func (f *VerifyEmail) Run(ctx context.Context, rawToken string) VerifyResult {
	token := NormalizeVerificationToken(rawToken)
	if !IsCanonicalToken(token) {
		f.log.Warn(ctx, "verification token is not in canonical form")
	}

	var identity *models.Identity

	info, err := f.checkToken(ctx, token)
	if err != nil {
		f.log.Warn(ctx, "token pre-check failed, continuing with verification", "error", err)
	} else {
		if info.User != nil {
			identity = info.User
		}
		if info.IsVerified {
			return f.alreadyVerified(ctx, identity, models.TokenPair{})
		}
	}

	vctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	resp, err := f.api.VerifyEmail(vctx, token)
	if err == nil {
		if resp.User != nil {
			identity = resp.User
		}
		return f.verified(ctx, identity, resp.TokenPair)
	}

	apiErr, ok := api.AsError(err)
	if ok && apiErr.User != nil {
		identity = apiErr.User
	}

	// The verification attempt itself can report already-verified, possibly
	// with an auto-login pair embedded in the error payload.
	if ok && apiErr.AlreadyVerified {
		return f.alreadyVerified(ctx, identity, apiErr.Tokens)
	}

	if identity == nil {
		identity = f.recoverIdentity(ctx, token)
	}

	return f.failed(ctx, err, identity)
}

// verified handles a successful verification call: establish a session when
// the backend returned tokens, otherwise send the user to manual login.
func (f *VerifyEmail) verified(ctx context.Context, identity *models.Identity, tokens models.TokenPair) VerifyResult {
	f.notifier.Notify(notify.LevelSuccess, "Your email has been verified successfully!")

	n := nav.ToAfter(nav.RouteLogin, redirectShort)
	if tokens.Valid() {
		if err := f.sessions.Set(ctx, tokens); err != nil {
			f.log.Warn(ctx, "failed to store session after verification", "error", err)
		} else {
			n = nav.ToAfter(nav.RouteDashboard, redirectShort)
		}
	}

	msg := "Your email has been verified successfully."
	if identity != nil && identity.Email != "" {
		msg = fmt.Sprintf("%s is now verified.", identity.Email)
	}
	return VerifyResult{State: VerifyStateSuccess, Message: msg, Identity: identity, Navigation: &n}
}

// alreadyVerified is the single constructor for the already-verified state,
// used both for the pre-check and for the verification error payload so
// either detection path ends identically.
func (f *VerifyEmail) alreadyVerified(ctx context.Context, identity *models.Identity, tokens models.TokenPair) VerifyResult {
	if tokens.Valid() {
		if err := f.sessions.Set(ctx, tokens); err != nil {
			f.log.Warn(ctx, "failed to store session for verified account", "error", err)
		}
	}

	msg := "This email is already verified. You can now log in to your account."
	if identity != nil && identity.Email != "" {
		msg = fmt.Sprintf("This email (%s) is already verified. You can now log in to your account.", identity.Email)
	}
	f.notifier.Notify(notify.LevelInfo, "This email is already verified. You can now log in.")

	n := nav.ToAfter(nav.RouteLogin, redirectLong)
	return VerifyResult{State: VerifyStateAlreadyVerified, Message: msg, Identity: identity, Navigation: &n}
}

func (f *VerifyEmail) failed(ctx context.Context, err error, identity *models.Identity) VerifyResult {
	result := VerifyResult{State: VerifyStateError, ErrorKind: api.KindGeneric, Identity: identity}
	result.Message = "Failed to verify email. The link may be invalid or expired."
	notification := "Verification failed. Please try using the resend option."

	if apiErr, ok := api.AsError(err); ok {
		result.ErrorKind = apiErr.Kind
		switch apiErr.Kind {
		case api.KindUnauthorized:
			result.Message = "Authentication error. Please try logging in first."
			notification = "Authentication error. Please try logging in directly."
		case api.KindNotFound:
			result.Message = "Verification link not found. This link may have been used already or is invalid."
			notification = "Verification link not found. Please try logging in or request a new verification link."
		case api.KindBadRequest:
			switch {
			case apiErr.Expired:
				result.Expired = true
				result.Message = "Verification link has expired. Please request a new one."
			case apiErr.Detail != "":
				result.Message = apiErr.Detail
			default:
				result.Message = "Invalid verification link. Please request a new one."
			}
		case api.KindTimeout:
			result.Message = "Verification request timed out. Please try again or request a new verification link."
			notification = "Verification request timed out. Please try again."
		}
	}

	f.log.Warn(ctx, "email verification failed", "kind", string(result.ErrorKind), "error", err)
	f.notifier.Notify(notify.LevelError, notification)
	return result
}

// checkToken is the bounded pre-check call.
func (f *VerifyEmail) checkToken(ctx context.Context, token string) (*api.TokenInfo, error) {
	cctx, cancel := context.WithTimeout(ctx, precheckTimeout)
	defer cancel()
	return f.api.CheckToken(cctx, token)
}

// recoverIdentity tries the fallback chain for a displayable identity:
// the token-info call, then the identity endpoint with any stored session.
// Failures here are swallowed.
func (f *VerifyEmail) recoverIdentity(ctx context.Context, token string) *models.Identity {
	if info, err := f.checkToken(ctx, token); err == nil && info.User != nil {
		return info.User
	}

	pair, err := f.sessions.Tokens(ctx)
	if err != nil || pair.Access == "" {
		return nil
	}
	mctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()
	if u, err := f.api.Me(mctx, pair.Access); err == nil {
		return &models.Identity{Username: u.Username, Email: u.Email}
	}
	return nil
}

// RegenerateResult is the outcome of requesting a fresh verification
// artifact for a known email.
type RegenerateResult struct {
	OK         bool
	Message    string
	Navigation *nav.Navigation
}

// Regenerate asks the backend for a new verification link. Three outcomes:
// the account turns out to be verified (go log in), the account does not
// exist (go register), or a new link was issued (follow it directly, else
// fall back to the resend page).
func (f *VerifyEmail) Regenerate(ctx context.Context, email string) RegenerateResult {
	rctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	resp, err := f.api.RegenerateVerification(rctx, email)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok {
			if apiErr.AlreadyVerified {
				return f.regenerateVerifiedAlready()
			}
			if apiErr.Kind == api.KindNotFound {
				f.notifier.Notify(notify.LevelError, "Account not found. Please register first.")
				n := nav.ToAfter(nav.RouteRegister, regenerateRedirect)
				return RegenerateResult{Message: "Account not found. Please register first.", Navigation: &n}
			}
		}
		f.log.Warn(ctx, "verification link regeneration failed", "error", err)
		return RegenerateResult{Message: "Could not generate a new verification link. Please try again."}
	}

	if resp.AlreadyVerified {
		return f.regenerateVerifiedAlready()
	}

	f.notifier.Notify(notify.LevelSuccess, "New verification link generated! Please check your email.")

	var n nav.Navigation
	if resp.VerificationURL != "" {
		n = nav.ToURLAfter(resp.VerificationURL, redirectShort)
	} else {
		n = nav.ToAfter(nav.RouteResendVerification, redirectShort).
			WithQuery("email", email).
			WithQuery("success", "true")
	}
	return RegenerateResult{OK: true, Navigation: &n}
}

func (f *VerifyEmail) regenerateVerifiedAlready() RegenerateResult {
	f.notifier.Notify(notify.LevelInfo, "Your email is already verified! You can log in now.")
	n := nav.ToAfter(nav.RouteLogin, regenerateRedirect)
	return RegenerateResult{OK: true, Message: "Your email is already verified.", Navigation: &n}
}

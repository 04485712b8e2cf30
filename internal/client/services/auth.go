package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/client/nav"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/client/session"
	"github.com/pitchview/client/internal/logging"
)

// ErrNotAuthenticated is returned by operations that need a session when no
// token pair is stored.
var ErrNotAuthenticated = errors.New("not authenticated")

// passwordResetRedirectDelay is how long the forgot-password confirmation is
// shown before navigating back to login.
const passwordResetRedirectDelay = 5 * time.Second

// Auth orchestrates the account lifecycle against the backend API.
//
// Branching contract:
//   - Login returns (outcome, nil) both on success and on the
//     verification-required case; the latter has Authenticated=false and a
//     resend-verification navigation. Every other failure returns an error.
//   - CheckSession never fails hard: any problem clears the session and
//     reads as "unauthenticated".
//   - Logout is best-effort on the server side and always clears locally.
type Auth struct {
	api      api.Client
	sessions session.Store
	notifier notify.Notifier
	log      logging.Logger

	user *models.User
}

func NewAuth(apiClient api.Client, sessions session.Store, notifier notify.Notifier, log logging.Logger) *Auth {
	return &Auth{api: apiClient, sessions: sessions, notifier: notifier, log: log}
}

// RegisterData is the registration form payload. Username may be left empty;
// it is then derived from the email's local part.
type RegisterData struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginOutcome reports how a login attempt ended when it did not error.
type LoginOutcome struct {
	Authenticated bool
	User          *models.User
	Navigation    nav.Navigation
}

// RegisterOutcome reports how registration ended when it did not error.
type RegisterOutcome struct {
	Response   *api.RegisterResponse
	LoggedIn   bool
	Navigation nav.Navigation
}

// CurrentUser returns the user fetched at login or session check, or nil.
func (a *Auth) CurrentUser() *models.User { return a.user }

// CheckSession resolves the stored token pair into a user via the identity
// endpoint. Any failure is recovered locally: the session is cleared and a
// nil user returned. Only storage itself can produce an error.
func (a *Auth) CheckSession(ctx context.Context) (*models.User, error) {
	pair, err := a.sessions.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" {
		a.log.Debug(ctx, "no stored token, not authenticated")
		return nil, nil
	}

	if session.Expired(pair.Access, time.Now()) {
		a.log.Warn(ctx, "stored access token is past its expiry")
	}

	user, err := a.api.Me(ctx, pair.Access)
	if err != nil {
		a.log.Warn(ctx, "session check failed, clearing stored session", "error", err)
		if cerr := a.sessions.Clear(ctx); cerr != nil {
			return nil, cerr
		}
		a.user = nil
		return nil, nil
	}

	a.user = user
	return user, nil
}

// Login authenticates and stores the issued token pair. A
// verification-required rejection is not an error: the outcome carries the
// resend-verification navigation for the submitted identifier.
func (a *Auth) Login(ctx context.Context, username, password string) (*LoginOutcome, error) {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		if api.IsKind(err, api.KindVerificationRequired) {
			a.notifier.Notify(notify.LevelInfo, "Email verification required. Please verify your email.")
			return &LoginOutcome{
				Authenticated: false,
				Navigation:    nav.To(nav.RouteResendVerification).WithQuery("email", username),
			}, nil
		}

		msg := "Invalid username or password"
		if apiErr, ok := api.AsError(err); ok {
			msg = apiErr.Message(msg)
		}
		a.notifier.Notify(notify.LevelError, msg)
		return nil, err
	}

	if err := a.sessions.Set(ctx, resp.TokenPair); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	a.user = &resp.User

	a.notifier.Notify(notify.LevelSuccess, "Login successful! Redirecting to dashboard...")
	return &LoginOutcome{
		Authenticated: true,
		User:          a.user,
		Navigation:    nav.To(nav.RouteDashboard),
	}, nil
}

// Register creates the account and, unless the backend asks for email
// verification first, attempts an automatic login with the new credentials.
// An auto-login failure never undoes the registration: it downgrades to a
// warning and a manual-login navigation.
func (a *Auth) Register(ctx context.Context, data RegisterData) (*RegisterOutcome, error) {
	if data.Username == "" {
		data.Username = usernameFromEmail(data.Email)
	}

	req := api.RegisterRequest{
		Username:  data.Username,
		Email:     data.Email,
		Password:  data.Password,
		Password2: data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
	}

	resp, err := a.api.Register(ctx, req)
	if err != nil {
		if api.IsKind(err, api.KindVerificationRequired) {
			return &RegisterOutcome{Navigation: resendAfterRegistration(data.Email)}, nil
		}
		// Propagate unchanged: the *api.Error keeps the network / field-map /
		// detail distinction the caller renders from.
		return nil, err
	}

	if resp.RequiresVerification {
		a.notifier.Notify(notify.LevelSuccess,
			"Registration successful! Check your email for the verification link.")
		return &RegisterOutcome{Response: resp, Navigation: resendAfterRegistration(data.Email)}, nil
	}

	login, err := a.Login(ctx, data.Username, data.Password)
	if err != nil {
		a.log.Warn(ctx, "automatic login after registration failed", "error", err)
		a.notifier.Notify(notify.LevelWarning,
			"Registration successful, but automatic login failed. Please log in manually.")
		return &RegisterOutcome{Response: resp, Navigation: nav.To(nav.RouteLogin)}, nil
	}
	if !login.Authenticated {
		a.notifier.Notify(notify.LevelInfo,
			"Email verification required. Check your inbox or request a new verification link.")
		return &RegisterOutcome{Response: resp, Navigation: resendAfterRegistration(data.Email)}, nil
	}

	return &RegisterOutcome{Response: resp, LoggedIn: true, Navigation: login.Navigation}, nil
}

// Logout notifies the server best-effort and always clears the local
// session, returning the unauthenticated landing navigation.
func (a *Auth) Logout(ctx context.Context) (nav.Navigation, error) {
	pair, err := a.sessions.Tokens(ctx)
	if err != nil {
		return nav.Navigation{}, err
	}
	if pair.Access != "" {
		if err := a.api.Logout(ctx, pair.Access); err != nil {
			a.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	if err := a.sessions.Clear(ctx); err != nil {
		return nav.Navigation{}, err
	}
	a.user = nil
	return nav.To(nav.RouteHome), nil
}

// ChangePassword posts the password triple and replaces the stored pair with
// the newly issued one. On failure the most specific server message wins:
// old_password, then new_password, then detail.
func (a *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	pair, err := a.sessions.Tokens(ctx)
	if err != nil {
		return err
	}
	if pair.Access == "" {
		return ErrNotAuthenticated
	}

	resp, err := a.api.ChangePassword(ctx, pair.Access, oldPassword, newPassword, confirmPassword)
	if err != nil {
		msg := "Failed to change password"
		if apiErr, ok := api.AsError(err); ok {
			if m := apiErr.FirstOf("old_password", "new_password"); m != "" {
				msg = m
			}
		}
		a.notifier.Notify(notify.LevelError, msg)
		return err
	}

	if err := a.sessions.Set(ctx, resp.TokenPair); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	a.notifier.Notify(notify.LevelSuccess, "Password changed successfully")
	return nil
}

// RequestPasswordReset starts the reset flow. The outcome is reported as
// success regardless of whether the email exists, so the endpoint cannot be
// used to probe for accounts.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) nav.Navigation {
	if err := a.api.RequestPasswordReset(ctx, email); err != nil {
		a.log.Warn(ctx, "password reset request failed", "error", err)
		a.notifier.Notify(notify.LevelSuccess,
			"If your email exists in our system, you will receive password reset instructions")
	} else {
		a.notifier.Notify(notify.LevelSuccess,
			"Password reset instructions have been sent to your email")
	}
	return nav.ToAfter(nav.RouteLogin, passwordResetRedirectDelay)
}

func resendAfterRegistration(email string) nav.Navigation {
	return nav.To(nav.RouteResendVerification).
		WithQuery("email", email).
		WithQuery("from", "registration")
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

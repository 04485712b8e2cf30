package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/config"
	"github.com/pitchview/client/internal/client/flows"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/client/services"
	"github.com/pitchview/client/internal/client/session"
	"github.com/pitchview/client/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires configuration, the local session store, the API client and the
// account flows behind an interactive REPL.
type App struct {
	config   *config.Config
	auth     *services.Auth
	verify   *flows.VerifyEmail
	reset    *flows.ResetPassword
	resend   *flows.ResendVerification
	sessions session.Store
	log      logging.Logger
	reader   *bufio.Reader
	close    func() error
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := session.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing session database", "error", err)
		return nil, err
	}

	sessions := session.NewSQLiteStore(db)
	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log)
	notifier := notify.NewLogNotifier(log)

	return &App{
		config:   c,
		auth:     services.NewAuth(apiClient, sessions, notifier, log),
		verify:   flows.NewVerifyEmail(apiClient, sessions, notifier, log),
		reset:    flows.NewResetPassword(apiClient, sessions, notifier, log),
		resend:   flows.NewResendVerification(apiClient, sessions, notifier, log),
		sessions: sessions,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		close:    db.Close,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

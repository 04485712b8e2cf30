package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchview/client/internal/client/nav"
)

// sleepFn is a test seam for the redirect delay. It returns false when the
// wait was cancelled.
var sleepFn = waitCtx

func waitCtx(ctx context.Context, n nav.Navigation) bool {
	if n.Delay <= 0 {
		return true
	}
	t := time.NewTimer(n.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// navigate performs a pending navigation. Delayed navigations wait first and
// are abandoned if ctx is cancelled, mirroring a user leaving the page before
// a timed redirect fires.
func (a *App) navigate(ctx context.Context, n nav.Navigation) {
	if n.Route == "" && n.URL == "" {
		return
	}

	if n.Delay > 0 {
		printlnFn(fmt.Sprintf("Redirecting to %s in %s...", n.Target(), n.Delay))
	}
	if !sleepFn(ctx, n) {
		a.log.Debug(ctx, "navigation cancelled", "target", n.Target())
		return
	}

	if n.URL != "" {
		printlnFn("Open this link to continue: " + n.URL)
		return
	}

	switch n.Route {
	case nav.RouteResendVerification:
		a.resendPage(ctx, n.Query)
	case nav.RouteRegister:
		_ = a.Register(ctx)
	default:
		printlnFn("-> " + n.Target())
	}
}

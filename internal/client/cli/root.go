package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if u := a.auth.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s) ", u.Username)
	}
	return ""
}

// Root restores any stored session and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to pitchview CLI (type 'help' for commands)")

	if user, err := a.auth.CheckSession(ctx); err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	} else if user != nil {
		printlnFn(fmt.Sprintf("Logged in as %s", user.Username))
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

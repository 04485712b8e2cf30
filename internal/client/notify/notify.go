// Package notify is the seam to the transient user-facing message channel.
// Flows report outcomes here; the host decides how messages are shown.
package notify

import (
	"context"

	"github.com/pitchview/client/internal/logging"
)

// Level mirrors the notification kinds the UI distinguishes.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier delivers a transient message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier routes notifications through the structured logger.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(level Level, message string) {
	ctx := context.Background()
	switch level {
	case LevelError:
		n.log.Error(ctx, message, "notification", string(level))
	case LevelWarning:
		n.log.Warn(ctx, message, "notification", string(level))
	default:
		n.log.Info(ctx, message, "notification", string(level))
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(level Level, message string) {}

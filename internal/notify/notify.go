// Package notify delivers user-visible notifications and log entries
// to the host shell.
package notify

import (
	"github.com/rs/zerolog"
)

// Notification is a user-visible toast.
type Notification struct {
	Type     string `json:"type"` // "success", "error", "info"
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Duration int    `json:"duration,omitempty"` // milliseconds, 0 = sticky
}

// LogEntry goes to the shell's detailed log panel. Silent entries do
// not raise the panel.
type LogEntry struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Silent   bool   `json:"silent,omitempty"`
}

// Notifier is the shell-facing notification contract.
type Notifier interface {
	Notify(n Notification)
	Log(e LogEntry)
}

// LogNotifier writes notifications to structured logs. It backs
// headless runs and tests; the API layer wraps it with shell fanout.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Notify(notification Notification) {
	evt := n.logger.Info()
	if notification.Type == "error" {
		evt = n.logger.Error()
	}
	evt.Str("title", notification.Title).Str("content", notification.Content).Msg("notification")
}

func (n *LogNotifier) Log(entry LogEntry) {
	n.logger.Info().Str("category", entry.Category).Bool("silent", entry.Silent).Msg(entry.Message)
}

package notify

import (
	"context"

	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
)

// ConsoleNotifier logs the welcome message instead of sending it. Default
// in development and in deployments without SES credentials.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (n *ConsoleNotifier) SendWelcome(_ context.Context, email, nombre string) error {
	logx.WithFields(logx.Fields{
		"to":     email,
		"nombre": nombre,
	}).Info("welcome notification (console mode)")
	return nil
}

var _ Notifier = (*ConsoleNotifier)(nil)

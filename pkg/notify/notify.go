// Package notify sends the registration welcome message. Delivery is
// best-effort: a failed send is logged by the caller and never fails the
// registration itself.
package notify

import "context"

// Notifier delivers a welcome message to a freshly registered identity.
type Notifier interface {
	SendWelcome(ctx context.Context, email, nombre string) error
}

package adapter

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

// Notifier delivers a notification over a single channel. Implementations
// are invoked from the worker pool; delivery is at-most-once and a failed
// send is recorded but never retried.
type Notifier interface {
	Channel() model.NotificationChannel
	Send(ctx context.Context, n *model.Notification) error
}

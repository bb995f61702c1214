package notify

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier swallows messages; used when a channel is not configured.
type NoopNotifier struct {
	channel model.NotificationChannel
}

func NewNoopNotifier(channel model.NotificationChannel) *NoopNotifier {
	return &NoopNotifier{channel: channel}
}

func (n *NoopNotifier) Channel() model.NotificationChannel { return n.channel }

func (n *NoopNotifier) Send(ctx context.Context, msg *model.Notification) error { return nil }

package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

// NotificationLogRepository records dispatch outcomes. Logging failures here
// must never affect the primary mutation; callers ignore write errors.
type NotificationLogRepository interface {
	Save(ctx context.Context, tx Tx, l *model.NotificationLog) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.NotificationLog, error)
}

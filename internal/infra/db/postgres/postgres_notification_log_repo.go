package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct{ pool *pgxpool.Pool }

func NewNotificationLogRepo(pool *pgxpool.Pool) *notificationLogRepo {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, tx repository.Tx, l *model.NotificationLog) error {
	const q = `
INSERT INTO notification_logs (id, user_id, channel, event, reference, success, error, sent_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	_, err := execSQL(ctx, r.pool, tx, q, l.ID, l.UserID, l.Channel, l.Event, l.Reference, l.Success, l.Error, l.SentAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *notificationLogRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.NotificationLog, error) {
	const q = `SELECT id, user_id, channel, event, reference, success, error, sent_at FROM notification_logs WHERE user_id=$1 ORDER BY sent_at DESC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.NotificationLog
	for rows.Next() {
		l := &model.NotificationLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Channel, &l.Event, &l.Reference, &l.Success, &l.Error, &l.SentAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

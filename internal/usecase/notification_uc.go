package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// TaskPool runs tasks asynchronously. Submit returns an error when the queue
// is saturated; dispatch treats that as a dropped notification.
type TaskPool interface {
	Submit(task func(ctx context.Context) error) error
}

type NotificationUseCase interface {
	// PaymentSucceeded thanks the buyer over email and WhatsApp.
	PaymentSucceeded(ctx context.Context, user *model.User, txn *model.Transaction)
	// CommissionEarned tells an affiliate about a fresh commission credit.
	CommissionEarned(ctx context.Context, affiliateUserID string, amount int64, invoiceNumber string)
	// ChallengeMilestones fans out one message per crossed threshold.
	ChallengeMilestones(ctx context.Context, events []MilestoneEvent)
	// PaymentReminder nudges a buyer whose invoice is still unpaid.
	PaymentReminder(ctx context.Context, user *model.User, txn *model.Transaction)
}

type notificationUC struct {
	notifiers  map[model.NotificationChannel]adapter.Notifier
	logs       repository.NotificationLogRepository
	users      repository.UserRepository
	affiliates repository.AffiliateRepository
	pool       TaskPool
	log        *zerolog.Logger
}

func NewNotificationUseCase(notifiers []adapter.Notifier, logs repository.NotificationLogRepository, users repository.UserRepository, affiliates repository.AffiliateRepository, pool TaskPool, logger *zerolog.Logger) *notificationUC {
	byChannel := make(map[model.NotificationChannel]adapter.Notifier, len(notifiers))
	for _, n := range notifiers {
		byChannel[n.Channel()] = n
	}
	return &notificationUC{notifiers: byChannel, logs: logs, users: users, affiliates: affiliates, pool: pool, log: logger}
}

// dispatch hands one notification to the pool. Delivery is at-most-once: a
// full queue or a failed send is logged and never retried, and nothing here
// can fail the mutation that produced the event.
func (u *notificationUC) dispatch(n *model.Notification) {
	sender, ok := u.notifiers[n.Channel]
	if !ok {
		return
	}
	err := u.pool.Submit(func(ctx context.Context) error {
		sendErr := sender.Send(ctx, n)
		entry := &model.NotificationLog{
			ID:        uuid.NewString(),
			UserID:    n.UserID,
			Channel:   n.Channel,
			Event:     n.Event,
			Reference: n.Reference,
			Success:   sendErr == nil,
			SentAt:    time.Now(),
		}
		if sendErr != nil {
			entry.Error = sendErr.Error()
			u.log.Warn().Err(sendErr).Str("channel", string(n.Channel)).Str("event", n.Event).Msg("notification send failed")
		}
		_ = u.logs.Save(ctx, repository.NoTX, entry)
		return nil
	})
	if err != nil {
		u.log.Warn().Str("event", n.Event).Msg("notification dropped, queue full")
	}
}

func (u *notificationUC) PaymentSucceeded(ctx context.Context, user *model.User, txn *model.Transaction) {
	body := fmt.Sprintf("Pembayaran invoice %s sebesar Rp%d berhasil. Akses Anda sudah aktif.", txn.InvoiceNumber, txn.Amount)
	u.toUser(user, "payment_succeeded", txn.ID, "Pembayaran berhasil", body)
}

func (u *notificationUC) CommissionEarned(ctx context.Context, affiliateUserID string, amount int64, invoiceNumber string) {
	user, err := u.users.FindByID(ctx, repository.NoTX, affiliateUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Err(err).Str("user_id", affiliateUserID).Msg("commission notify lookup failed")
		}
		return
	}
	body := fmt.Sprintf("Komisi Rp%d dari invoice %s sudah masuk ke saldo Anda.", amount, invoiceNumber)
	u.toUser(user, "commission_received", invoiceNumber, "Komisi baru", body)
}

func (u *notificationUC) ChallengeMilestones(ctx context.Context, events []MilestoneEvent) {
	for _, ev := range events {
		profile, err := u.affiliates.FindProfileByID(ctx, repository.NoTX, ev.AffiliateID)
		if err != nil {
			continue
		}
		user, err := u.users.FindByID(ctx, repository.NoTX, profile.UserID)
		if err != nil {
			continue
		}
		for _, m := range ev.Milestones {
			subject := fmt.Sprintf("Progress %d%% di %s", m, ev.Challenge.Title)
			body := fmt.Sprintf("Anda mencapai %d%% dari target challenge %q.", m, ev.Challenge.Title)
			if m == 100 {
				subject = fmt.Sprintf("Challenge %s selesai!", ev.Challenge.Title)
				body = fmt.Sprintf("Selamat! Anda menyelesaikan challenge %q. Hadiah: %s.", ev.Challenge.Title, ev.Challenge.Reward)
			}
			u.toUser(user, "challenge_milestone", ev.Challenge.ID, subject, body)
		}
	}
}

func (u *notificationUC) PaymentReminder(ctx context.Context, user *model.User, txn *model.Transaction) {
	body := fmt.Sprintf("Invoice %s sebesar Rp%d menunggu pembayaran. Selesaikan di %s", txn.InvoiceNumber, txn.Amount, txn.PaymentURL)
	u.toUser(user, "payment_reminder", txn.ID, "Menunggu pembayaran", body)
}

// toUser fans one event out to every channel with a usable recipient.
func (u *notificationUC) toUser(user *model.User, event, reference, subject, body string) {
	now := time.Now()
	if user.Email != "" {
		u.dispatch(&model.Notification{
			ID: uuid.NewString(), UserID: user.ID, Channel: model.ChannelEmail,
			Recipient: user.Email, Subject: subject, Body: body,
			Event: event, Reference: reference, CreatedAt: now,
		})
	}
	if user.Whatsapp != "" {
		u.dispatch(&model.Notification{
			ID: uuid.NewString(), UserID: user.ID, Channel: model.ChannelWhatsapp,
			Recipient: user.Whatsapp, Subject: subject, Body: body,
			Event: event, Reference: reference, CreatedAt: now,
		})
	}
}

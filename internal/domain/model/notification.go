package model

import "time"

type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "EMAIL"
	ChannelWhatsapp NotificationChannel = "WHATSAPP"
	ChannelPush     NotificationChannel = "PUSH"
)

// Notification is a single outbound message on one channel. Dispatch is
// fire-and-forget: delivery is at-most-once and failures never propagate to
// the mutation that produced the event.
type Notification struct {
	ID        string
	UserID    string
	Channel   NotificationChannel
	Recipient string // email address, phone number or push player id
	Subject   string
	Body      string
	Event     string // commission_received | challenge_milestone | ...
	Reference string // transaction/challenge id
	CreatedAt time.Time
}

// NotificationLog records the outcome of a dispatch attempt.
type NotificationLog struct {
	ID        string
	UserID    string
	Channel   NotificationChannel
	Event     string
	Reference string
	Success   bool
	Error     string
	SentAt    time.Time
}

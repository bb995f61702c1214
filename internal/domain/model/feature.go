package model

import "time"

// PlatformFeature is an admin-managed feature flag. Payment channels are
// gated by keys of the form "payment_channel:<CODE>".
type PlatformFeature struct {
	Key       string // unique
	Enabled   bool
	Value     string // optional channel metadata / limits
	UpdatedAt time.Time
}

// PaymentChannelKey builds the flag key gating a payment channel.
func PaymentChannelKey(channel string) string {
	return "payment_channel:" + channel
}

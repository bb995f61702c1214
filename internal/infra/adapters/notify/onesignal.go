package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"eksporyuk-platform/internal/config"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*OneSignalNotifier)(nil)

// OneSignalNotifier delivers in-app push notifications. The recipient field
// carries the OneSignal player id.
type OneSignalNotifier struct {
	appID  string
	apiKey string
	client *http.Client
}

func NewOneSignalNotifier(cfg *config.OneSignalConfig) (*OneSignalNotifier, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, errors.New("onesignal app id or api key empty")
	}
	return &OneSignalNotifier{
		appID:  cfg.AppID,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (n *OneSignalNotifier) Channel() model.NotificationChannel { return model.ChannelPush }

func (n *OneSignalNotifier) Send(ctx context.Context, msg *model.Notification) error {
	payload := map[string]any{
		"app_id":             n.appID,
		"include_player_ids": []string{msg.Recipient},
		"headings":           map[string]string{"en": msg.Subject},
		"contents":           map[string]string{"en": msg.Body},
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://onesignal.com/api/v1/notifications", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("onesignal send failed: " + resp.Status)
	}
	return nil
}

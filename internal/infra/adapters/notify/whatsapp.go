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

var _ adapter.Notifier = (*WhatsappNotifier)(nil)

// WhatsappNotifier pushes messages through a WhatsApp business API relay.
type WhatsappNotifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWhatsappNotifier(cfg *config.WhatsappConfig) (*WhatsappNotifier, error) {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		return nil, errors.New("whatsapp api key or base url empty")
	}
	return &WhatsappNotifier{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (n *WhatsappNotifier) Channel() model.NotificationChannel { return model.ChannelWhatsapp }

func (n *WhatsappNotifier) Send(ctx context.Context, msg *model.Notification) error {
	payload := map[string]string{
		"phone":   msg.Recipient,
		"message": msg.Body,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/send-message", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("whatsapp send failed: " + resp.Status)
	}
	return nil
}

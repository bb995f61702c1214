package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eksporyuk-platform/internal/config"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*MailketingNotifier)(nil)

// MailketingNotifier sends transactional email through the Mailketing API.
type MailketingNotifier struct {
	apiToken  string
	fromName  string
	fromEmail string
	baseURL   string
	client    *http.Client
}

func NewMailketingNotifier(cfg *config.MailketingConfig) (*MailketingNotifier, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("mailketing api token empty")
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.mailketing.co.id"
	}
	return &MailketingNotifier{
		apiToken:  cfg.APIToken,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
		baseURL:   base,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (n *MailketingNotifier) Channel() model.NotificationChannel { return model.ChannelEmail }

func (n *MailketingNotifier) Send(ctx context.Context, msg *model.Notification) error {
	form := url.Values{}
	form.Set("api_token", n.apiToken)
	form.Set("from_name", n.fromName)
	form.Set("from_email", n.fromEmail)
	form.Set("recipient", msg.Recipient)
	form.Set("subject", msg.Subject)
	form.Set("content", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/api/v1/send", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if resp.StatusCode >= 300 || strings.EqualFold(out.Status, "error") {
		return errors.New("mailketing send failed: " + out.Message)
	}
	return nil
}

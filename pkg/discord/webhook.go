package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNoWebhook = errors.New("discord webhook is not configured")

type WebhookConfigs struct {
	URL       string
	Username  string
	AvatarURL string
}

type embed struct {
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type webhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []embed `json:"embeds"`
}

type Webhook struct {
	client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{client: &http.Client{Timeout: 5 * time.Second}}
}

// SendEmbed posts an embed message to the configured webhook. A missing URL
// is a configuration error the caller surfaces to the admin, not a fatal one.
func (w *Webhook) SendEmbed(ctx context.Context, cfg WebhookConfigs, text string, color int) error {
	if cfg.URL == "" {
		return ErrNoWebhook
	}

	payload := webhookPayload{
		Username:  cfg.Username,
		AvatarURL: cfg.AvatarURL,
		Embeds:    []embed{{Description: text, Color: color}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %s", resp.Status)
	}

	return nil
}

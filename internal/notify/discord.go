package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/domain"
)

const maxBody = 64 << 10

// Discord posts and deletes messages through a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
type Discord struct {
	Webhook string
	Client  *http.Client
	Style   Style
	Logger  *zap.Logger
	Debug   bool // log request payloads and response bodies
}

func NewDiscord(webhook string, style Style, logger *zap.Logger, debug bool) *Discord {
	if webhook == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discord{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Style:   style,
		Logger:  logger,
		Debug:   debug,
	}
}

func (d *Discord) DeleteMessage(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	target, err := d.messageURL(id)
	if err != nil {
		return &ChannelError{Op: "delete", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return &ChannelError{Op: "delete", Err: err}
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return &ChannelError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	switch {
	case resp.StatusCode/100 == 2:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		d.Logger.Debug("discord_message_already_gone", zap.String("message_id", id))
		return nil
	default:
		return &ChannelError{Op: "delete", StatusCode: resp.StatusCode, Body: snippet(body)}
	}
}

func (d *Discord) PostMessage(ctx context.Context, n domain.Notice) (string, error) {
	target, err := d.postURL()
	if err != nil {
		return "", &ChannelError{Op: "post", Err: err}
	}
	body, err := json.Marshal(BuildPayload(n, d.Style))
	if err != nil {
		return "", &ChannelError{Op: "post", Err: err}
	}
	if d.Debug {
		d.Logger.Debug("discord_payload", zap.ByteString("body", body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", &ChannelError{Op: "post", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", &ChannelError{Op: "post", Err: err}
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if d.Debug {
		d.Logger.Debug("discord_response", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
	}

	if resp.StatusCode/100 != 2 {
		return "", &ChannelError{Op: "post", StatusCode: resp.StatusCode, Body: snippet(raw)}
	}
	var msg struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", &ChannelError{Op: "post", StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if msg.ID == "" {
		return "", &ChannelError{Op: "post", StatusCode: resp.StatusCode, Err: errors.New("response has no message id")}
	}
	return msg.ID, nil
}

func (d *Discord) postURL() (string, error) {
	u, err := url.Parse(d.Webhook)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	q := u.Query()
	q.Set("wait", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *Discord) messageURL(id string) (string, error) {
	u, err := url.Parse(d.Webhook)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/messages/" + url.PathEscape(id)
	return u.String(), nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}

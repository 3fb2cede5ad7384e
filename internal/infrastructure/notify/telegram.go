package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/tidwall/gjson"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramSender posts messages through the Telegram Bot API
type TelegramSender struct {
	endpoint      string
	defaultChatID string
	client        *http.Client
}

// NewTelegramSender returns nil when no bot token is configured
func NewTelegramSender(cfg config.TelegramConfig) *TelegramSender {
	if cfg.BotToken == "" {
		return nil
	}
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	if base == "" {
		base = defaultTelegramAPI
	}
	return &TelegramSender{
		endpoint:      base + "/bot" + cfg.BotToken + "/sendMessage",
		defaultChatID: cfg.DefaultChatID,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

// Channel implements notification.Sender
func (s *TelegramSender) Channel() notification.Channel {
	return notification.ChannelTelegram
}

// Send implements notification.Sender. Messages without a chat ID go to the
// configured default chat.
func (s *TelegramSender) Send(ctx context.Context, msg notification.Message) error {
	chatID := msg.ChatID
	if chatID == "" {
		chatID = s.defaultChatID
	}
	if chatID == "" {
		return notification.ErrNoRecipient
	}

	text := "*" + escapeMarkdown(msg.Title) + "*\n" + escapeMarkdown(msg.Body)
	if msg.ActionURL != "" {
		text += "\n" + escapeMarkdown(msg.ActionURL)
	}
	payload, err := json.Marshal(map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	})
	if err != nil {
		return permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("telegram: read response: %w", err)
	}

	if gjson.GetBytes(body, "ok").Bool() {
		return nil
	}
	code := int(gjson.GetBytes(body, "error_code").Int())
	if code == 0 {
		code = resp.StatusCode
	}
	err = fmt.Errorf("telegram: %d %s", code, gjson.GetBytes(body, "description").String())
	if wait := gjson.GetBytes(body, "parameters.retry_after"); wait.Exists() {
		err = fmt.Errorf("%w (retry after %ds)", err, wait.Int())
	}
	if !retryableStatus(code) {
		return permanent(err)
	}
	return err
}

var markdownReplacer = strings.NewReplacer(
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`, "~", `\~`, "`", "\\`",
	">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`, "=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`,
	".", `\.`, "!", `\!`,
)

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

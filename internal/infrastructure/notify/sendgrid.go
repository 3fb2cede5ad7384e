package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends email through the SendGrid v3 mail API
type SendGridSender struct {
	request rest.Request
	from    *mail.Email
	sandbox bool
}

// NewSendGridSender returns nil when no API key is configured
func NewSendGridSender(cfg config.SendGridConfig) *SendGridSender {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil
	}
	return newSendGridSender(cfg, "")
}

func newSendGridSender(cfg config.SendGridConfig, host string) *SendGridSender {
	req := sendgrid.GetRequest(cfg.APIKey, "/v3/mail/send", host)
	req.Method = rest.Post
	return &SendGridSender{
		request: req,
		from:    mail.NewEmail(cfg.FromName, cfg.FromEmail),
		sandbox: cfg.Sandbox,
	}
}

// Channel implements notification.Sender
func (s *SendGridSender) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Send implements notification.Sender
func (s *SendGridSender) Send(ctx context.Context, msg notification.Message) error {
	if msg.Email == "" {
		return notification.ErrNoRecipient
	}
	m := mail.NewSingleEmail(s.from, msg.Title, mail.NewEmail("", msg.Email), plainBody(msg), htmlBody(msg))
	if s.sandbox {
		m.MailSettings = mail.NewMailSettings().SetSandboxMode(mail.NewSetting(true))
	}

	req := s.request
	req.Body = mail.GetRequestBody(m)
	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		err := fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
		if !retryableStatus(resp.StatusCode) {
			return permanent(err)
		}
		return err
	}
	return nil
}

func plainBody(msg notification.Message) string {
	if msg.ActionURL == "" {
		return msg.Body
	}
	return msg.Body + "\n\n" + msg.ActionURL
}

func htmlBody(msg notification.Message) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>"))
	b.WriteString("</p>")
	if msg.ActionURL != "" {
		b.WriteString(`<p><a href="`)
		b.WriteString(html.EscapeString(msg.ActionURL))
		b.WriteString(`">View details</a></p>`)
	}
	return b.String()
}

package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// smsLimit keeps messages within ten SMS segments
const smsLimit = 1530

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS through the Twilio messages API
type TwilioSender struct {
	api  messageCreator
	from string
}

// NewTwilioSender returns nil when Twilio is not configured
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{api: client.Api, from: cfg.FromNumber}
}

// Channel implements notification.Sender
func (s *TwilioSender) Channel() notification.Channel {
	return notification.ChannelSMS
}

// Send implements notification.Sender. The Twilio client has no context
// support; the dispatcher's timeout bounds the wait instead.
func (s *TwilioSender) Send(ctx context.Context, msg notification.Message) error {
	if msg.Phone == "" {
		return notification.ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Phone)
	params.SetFrom(s.from)
	params.SetBody(smsBody(msg))

	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		_, err := s.api.CreateMessage(params)
		done <- result{err}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-done:
		if r.err == nil {
			return nil
		}
		var restErr *twilioclient.TwilioRestError
		if errors.As(r.err, &restErr) && !retryableStatus(restErr.Status) {
			return permanent(fmt.Errorf("twilio: %d %s", restErr.Code, restErr.Message))
		}
		return fmt.Errorf("twilio: %w", r.err)
	}
}

func smsBody(msg notification.Message) string {
	body := msg.Title + "\n" + msg.Body
	if msg.ActionURL != "" {
		body += "\n" + msg.ActionURL
	}
	if r := []rune(body); len(r) > smsLimit {
		body = string(r[:smsLimit-1]) + "…"
	}
	return body
}

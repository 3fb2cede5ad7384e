package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avast/retry-go/v4"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestTelegramSender(t *testing.T) {
	var got map[string]any
	status, reply := http.StatusOK, `{"ok":true,"result":{}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	defer srv.Close()

	s := NewTelegramSender(config.TelegramConfig{BotToken: "TOKEN", DefaultChatID: "-100", APIBaseURL: srv.URL + "/"})
	require.NotNil(t, s)
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, notification.Message{Title: "Lease ended", Body: "Unit 3A is free."}))
	assert.Equal(t, "-100", got["chat_id"])
	assert.Equal(t, "*Lease ended*\nUnit 3A is free\\.", got["text"])
	assert.Equal(t, "MarkdownV2", got["parse_mode"])

	status, reply = http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	err := s.Send(ctx, notification.Message{Title: "x", Body: "y", ChatID: "42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.False(t, retry.IsRecoverable(err))

	status, reply = http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`
	err = s.Send(ctx, notification.Message{Title: "x", Body: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry after 3s")
	assert.True(t, retry.IsRecoverable(err))
}

func TestTelegramSender_NoChat(t *testing.T) {
	s := NewTelegramSender(config.TelegramConfig{BotToken: "TOKEN"})
	assert.ErrorIs(t, s.Send(context.Background(), notification.Message{Title: "x"}), notification.ErrNoRecipient)
	assert.Nil(t, NewTelegramSender(config.TelegramConfig{}))
}

func TestSendGridSender(t *testing.T) {
	var payload string
	status := http.StatusAccepted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		payload = string(body)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	s := newSendGridSender(config.SendGridConfig{APIKey: "SG.key", FromEmail: "billing@rentquote.mv", FromName: "RentQuote", Sandbox: true}, srv.URL)
	ctx := context.Background()

	assert.ErrorIs(t, s.Send(ctx, notification.Message{Title: "x"}), notification.ErrNoRecipient)

	require.NoError(t, s.Send(ctx, notification.Message{
		Title: "Rent invoice RINV-202506-001", Body: "Due <soon>", ActionURL: "/rent-invoices/1", Email: "t@example.mv",
	}))
	assert.Contains(t, payload, `"email":"t@example.mv"`)
	assert.Contains(t, payload, `"subject":"Rent invoice RINV-202506-001"`)
	assert.Contains(t, payload, `"sandbox_mode":{"enable":true}`)
	assert.Contains(t, payload, "Due \\u0026lt;soon\\u0026gt;")

	status = http.StatusUnauthorized
	err := s.Send(ctx, notification.Message{Title: "x", Email: "t@example.mv"})
	require.Error(t, err)
	assert.False(t, retry.IsRecoverable(err))

	assert.Nil(t, NewSendGridSender(config.SendGridConfig{}))
}

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	return &twilioApi.ApiV2010Message{}, f.err
}

func TestTwilioSender(t *testing.T) {
	api := &fakeMessages{}
	s := &TwilioSender{api: api, from: "+15005550006"}
	ctx := context.Background()

	assert.ErrorIs(t, s.Send(ctx, notification.Message{Title: "x"}), notification.ErrNoRecipient)

	require.NoError(t, s.Send(ctx, notification.Message{Title: "Rent due", Body: "Pay by Friday", Phone: "+9607771234"}))
	assert.Equal(t, "+9607771234", *api.params.To)
	assert.Equal(t, "+15005550006", *api.params.From)
	assert.Equal(t, "Rent due\nPay by Friday", *api.params.Body)

	api.err = &twilioclient.TwilioRestError{Code: 21211, Message: "Invalid 'To' Phone Number", Status: 400}
	err := s.Send(ctx, notification.Message{Title: "x", Phone: "bad"})
	require.Error(t, err)
	assert.False(t, retry.IsRecoverable(err))
}

func TestSMSBodyTruncates(t *testing.T) {
	body := smsBody(notification.Message{Title: "t", Body: strings.Repeat("a", 2000)})
	assert.Equal(t, smsLimit, len([]rune(body)))
	assert.True(t, strings.HasSuffix(body, "…"))
}

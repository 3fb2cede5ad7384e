// Package notify delivers notifications over email (SendGrid), SMS (Twilio)
// and Telegram.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rentquote/backend/internal/domain/notification"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var _ notification.Dispatcher = (*ChannelDispatcher)(nil)

// Observer is told the outcome of every channel attempt
type Observer interface {
	ObserveDelivery(channel, outcome string)
}

// DispatcherConfig tunes retries and the global send rate
type DispatcherConfig struct {
	RetryAttempts uint
	RetryDelay    time.Duration
	RatePerSecond float64
	RateBurst     int
	SendTimeout   time.Duration
}

// ChannelDispatcher routes a notification to the senders of its channels.
// Each send is retried with exponential backoff and all sends share one
// rate limiter.
type ChannelDispatcher struct {
	senders  map[notification.Channel]notification.Sender
	limiter  *rate.Limiter
	cfg      DispatcherConfig
	observer Observer
	logger   *zap.Logger
}

// NewChannelDispatcher creates a dispatcher over the given senders. Nil
// senders are ignored, so unconfigured channels are skipped.
func NewChannelDispatcher(cfg DispatcherConfig, observer Observer, logger *zap.Logger, senders ...notification.Sender) *ChannelDispatcher {
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &ChannelDispatcher{
		senders:  make(map[notification.Channel]notification.Sender),
		limiter:  rate.NewLimiter(limit, cfg.RateBurst),
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
	for _, s := range senders {
		if s != nil {
			d.senders[s.Channel()] = s
		}
	}
	return d
}

// Channels lists the configured channels
func (d *ChannelDispatcher) Channels() []notification.Channel {
	out := make([]notification.Channel, 0, len(d.senders))
	for _, c := range []notification.Channel{notification.ChannelEmail, notification.ChannelSMS, notification.ChannelTelegram} {
		if _, ok := d.senders[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Dispatch sends msg on every channel of n.SentVia. Channels without a
// sender or a recipient are reported as skipped.
func (d *ChannelDispatcher) Dispatch(ctx context.Context, n *notification.Notification, msg notification.Message) []notification.DeliveryResult {
	targets := n.SentVia.Targets()
	results := make([]notification.DeliveryResult, 0, len(targets))
	for _, ch := range targets {
		res := d.send(ctx, ch, msg)
		d.observe(res)
		results = append(results, res)
	}
	return results
}

func (d *ChannelDispatcher) send(ctx context.Context, ch notification.Channel, msg notification.Message) notification.DeliveryResult {
	sender, ok := d.senders[ch]
	if !ok {
		return notification.DeliveryResult{Channel: ch, Skipped: true}
	}

	err := retry.Do(
		func() error {
			if err := d.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()
			return sender.Send(sendCtx, msg)
		},
		retry.Context(ctx),
		retry.Attempts(d.cfg.RetryAttempts),
		retry.Delay(d.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, notification.ErrNoRecipient)
		}),
		retry.OnRetry(func(attempt uint, err error) {
			d.logger.Debug("retrying notification send",
				zap.String("channel", string(ch)),
				zap.Uint("attempt", attempt+1),
				zap.Error(err))
		}),
	)
	if errors.Is(err, notification.ErrNoRecipient) {
		return notification.DeliveryResult{Channel: ch, Skipped: true}
	}
	return notification.DeliveryResult{Channel: ch, Err: err}
}

func (d *ChannelDispatcher) observe(res notification.DeliveryResult) {
	if d.observer == nil {
		return
	}
	outcome := "sent"
	switch {
	case res.Skipped:
		outcome = "skipped"
	case res.Err != nil:
		outcome = "failed"
	}
	d.observer.ObserveDelivery(string(res.Channel), outcome)
}

// permanent marks a provider error that retrying cannot fix
func permanent(err error) error {
	return retry.Unrecoverable(err)
}

// retryableStatus reports whether an HTTP status is worth retrying
func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EventNotifier turns lease and invoice events into notifications
type EventNotifier struct {
	notifications  *NotificationService
	invoiceChannel notification.Channel
	logger         *zap.Logger
}

// NewEventNotifier creates a new handler. Rent invoice notifications are
// sent over invoiceChannel; lease notifications stay in-app.
func NewEventNotifier(notifications *NotificationService, invoiceChannel notification.Channel, logger *zap.Logger) *EventNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !invoiceChannel.IsValid() {
		invoiceChannel = notification.ChannelNone
	}
	return &EventNotifier{notifications: notifications, invoiceChannel: invoiceChannel, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *EventNotifier) EventTypes() []string {
	return []string{property.EventTypeLeaseEnded, billing.EventTypeRentInvoiceGenerated}
}

// Handle creates the notification for the event
func (h *EventNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		n   *notification.Notification
		err error
	)
	switch evt := event.(type) {
	case *property.LeaseEndedEvent:
		n, err = leaseEndedNotification(evt)
	case *billing.RentInvoiceGeneratedEvent:
		n, err = h.invoiceNotification(evt)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	if err != nil {
		return err
	}
	if err := h.notifications.Notify(ctx, n); err != nil {
		h.logger.Error("failed to store notification",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

func leaseEndedNotification(evt *property.LeaseEndedEvent) (*notification.Notification, error) {
	message := "The tenant moved out on " + evt.MoveOutDate.Format("2006-01-02") + "."
	if evt.Reason != "" {
		message += " Reason: " + evt.Reason
	}
	n, err := notification.NewNotification(evt.AccountID(), notification.TypeLeaseEnded, "Lease ended", message,
		notification.PriorityNormal, notification.ChannelNone)
	if err != nil {
		return nil, err
	}
	n.ActionURL = "/tenant-units/" + evt.LeaseID.String()
	n.WithMetadata(notification.Metadata{
		notification.MetaTenantID: evt.TenantID.String(),
		notification.MetaLeaseID:  evt.LeaseID.String(),
		"unit_id":                 evt.UnitID.String(),
	})
	return n, nil
}

func (h *EventNotifier) invoiceNotification(evt *billing.RentInvoiceGeneratedEvent) (*notification.Notification, error) {
	title := "Rent invoice " + evt.InvoiceNumber
	message := fmt.Sprintf("Your rent of %s %s is due on %s.",
		evt.Currency, billing.FormatAmount(evt.Amount), evt.DueDate.Format("2006-01-02"))
	n, err := notification.NewNotification(evt.AccountID(), notification.TypeRentInvoice, title, message,
		notification.PriorityNormal, h.invoiceChannel)
	if err != nil {
		return nil, err
	}
	expires := evt.DueDate.AddDate(0, 1, 0)
	n.ExpiresAt = &expires
	n.ActionURL = "/rent-invoices/" + evt.InvoiceID.String()
	n.WithMetadata(notification.Metadata{
		notification.MetaTenantID: evt.TenantID.String(),
		notification.MetaLeaseID:  evt.LeaseID.String(),
		"invoice_number":          evt.InvoiceNumber,
	})
	return n, nil
}

// ContractExpiryNotifier warns about support contracts nearing expiry
type ContractExpiryNotifier struct {
	notifications *NotificationService
	contracts     quotation.SupportContractRepository
	customers     quotation.CustomerRepository
	sent          shared.IdempotencyStore
	logger        *zap.Logger
	now           func() time.Time
}

// NewContractExpiryNotifier creates a new ContractExpiryNotifier. sent
// remembers which contracts were already announced; with a nil store every
// run notifies again.
func NewContractExpiryNotifier(
	notifications *NotificationService,
	contracts quotation.SupportContractRepository,
	customers quotation.CustomerRepository,
	sent shared.IdempotencyStore,
	logger *zap.Logger,
) *ContractExpiryNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractExpiryNotifier{
		notifications: notifications,
		contracts:     contracts,
		customers:     customers,
		sent:          sent,
		logger:        logger,
		now:           time.Now,
	}
}

// NotifyExpiring creates one notification per active contract expiring
// within the warning window and returns how many were created
func (n *ContractExpiryNotifier) NotifyExpiring(ctx context.Context, accountID uuid.UUID) (int, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: shared.MaxPageSize,
		OrderBy:  "expiry_date",
		OrderDir: "asc",
		Filters:  map[string]any{"status": string(quotation.ContractStatusActive), "expiring": true},
	}
	contracts, err := n.contracts.FindAllForAccount(ctx, accountID, filter.Normalize())
	if err != nil {
		return 0, err
	}

	now := n.now()
	created := 0
	for i := range contracts {
		c := &contracts[i]
		if !c.IsExpiringSoon(now) {
			continue
		}
		if n.sent != nil {
			key := "contract-expiring:" + c.ID.String() + ":" + c.ExpiryDate.Format("20060102")
			fresh, err := n.sent.MarkProcessed(ctx, key, time.Duration(quotation.ExpiringSoonDays+1)*24*time.Hour)
			if err != nil {
				return created, err
			}
			if !fresh {
				continue
			}
		}

		days := c.DaysUntilExpiry(now)
		priority := notification.PriorityNormal
		if days <= 7 {
			priority = notification.PriorityHigh
		}
		note, err := notification.NewNotification(accountID, notification.TypeContractExpiring,
			"Support contract "+c.ContractNumber+" expiring",
			fmt.Sprintf("%s contract %s expires on %s (%d days).", c.ContractType, c.ContractNumber, c.ExpiryDate.Format("2006-01-02"), days),
			priority, notification.ChannelNone)
		if err != nil {
			return created, err
		}
		note.ActionURL = "/support-contracts/" + c.ID.String()
		md := notification.Metadata{"contract_id": c.ID.String(), "customer_id": c.CustomerID.String()}
		if customer, err := n.customers.FindByIDForAccount(ctx, accountID, c.CustomerID); err == nil {
			md["customer"] = customer.ResortName
			if customer.Email != "" {
				md[notification.MetaEmail] = customer.Email
				note.SentVia = notification.ChannelEmail
			}
		}
		note.WithMetadata(md)

		if err := n.notifications.Notify(ctx, note); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		n.logger.Info("contract expiry notifications created",
			zap.String("account_id", accountID.String()), zap.Int("count", created))
	}
	return created, nil
}

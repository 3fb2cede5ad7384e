package billing

import (
	"context"
	"fmt"

	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerPostingHandler posts invoice debits and payment credits to the
// tenant ledger
type LedgerPostingHandler struct {
	ledger *LedgerService
	logger *zap.Logger
}

// NewLedgerPostingHandler creates a new handler for invoice and payment events
func NewLedgerPostingHandler(ledger *LedgerService, logger *zap.Logger) *LedgerPostingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerPostingHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerPostingHandler) EventTypes() []string {
	return []string{billing.EventTypeRentInvoiceGenerated, billing.EventTypePaymentCompleted}
}

// Handle posts the ledger entry for the event
func (h *LedgerPostingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch evt := event.(type) {
	case *billing.RentInvoiceGeneratedEvent:
		return h.postInvoice(ctx, evt)
	case *billing.PaymentCompletedEvent:
		return h.postPayment(ctx, evt)
	}
	return fmt.Errorf("unexpected event type: %s", event.EventType())
}

func (h *LedgerPostingHandler) postInvoice(ctx context.Context, evt *billing.RentInvoiceGeneratedEvent) error {
	posted, err := h.ledger.HasReference(ctx, evt.AccountID(), evt.TenantID, evt.InvoiceNumber)
	if err != nil {
		return fmt.Errorf("failed to check ledger for invoice: %w", err)
	}
	if posted {
		h.logger.Debug("invoice already on ledger, skipping", zap.String("invoice_number", evt.InvoiceNumber))
		return nil
	}

	leaseID := evt.LeaseID
	entry, err := billing.NewDebit(evt.AccountID(), evt.TenantID, &leaseID, evt.InvoiceDate, billing.LedgerRent,
		evt.Amount, "Rent invoice "+evt.InvoiceNumber, evt.InvoiceNumber)
	if err != nil {
		return err
	}
	if err := h.ledger.Post(ctx, entry); err != nil {
		return fmt.Errorf("failed to post invoice debit: %w", err)
	}

	h.logger.Info("rent invoice posted to ledger",
		zap.String("invoice_number", evt.InvoiceNumber),
		zap.String("tenant_id", evt.TenantID.String()),
		zap.String("amount", evt.Amount.String()),
	)
	return nil
}

func (h *LedgerPostingHandler) postPayment(ctx context.Context, evt *billing.PaymentCompletedEvent) error {
	if evt.Direction != billing.DirectionIncome || evt.TenantID == nil {
		return nil
	}
	tenantID := *evt.TenantID
	if evt.ReceiptNumber != "" {
		posted, err := h.ledger.HasReference(ctx, evt.AccountID(), tenantID, evt.ReceiptNumber)
		if err != nil {
			return fmt.Errorf("failed to check ledger for payment: %w", err)
		}
		if posted {
			return nil
		}
	}

	date := evt.TransactionDate
	if date.IsZero() {
		date = evt.OccurredAt()
	}
	entry, err := billing.NewCredit(evt.AccountID(), tenantID, evt.LeaseID, date, evt.PaymentType.LedgerType(),
		evt.Amount, "Payment "+evt.ReceiptNumber, evt.ReceiptNumber, evt.PaymentMethod)
	if err != nil {
		return err
	}
	if err := h.ledger.Post(ctx, entry); err != nil {
		return fmt.Errorf("failed to post payment credit: %w", err)
	}

	h.logger.Info("payment posted to ledger",
		zap.String("receipt_number", evt.ReceiptNumber),
		zap.String("tenant_id", tenantID.String()),
		zap.String("amount", evt.Amount.String()),
	)
	return nil
}

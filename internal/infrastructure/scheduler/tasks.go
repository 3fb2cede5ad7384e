package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/rentquote/backend/internal/application/billing"
	quotationapp "github.com/rentquote/backend/internal/application/quotation"
	"github.com/rentquote/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Job names
const (
	JobRentInvoices = "rent_invoices"
	JobOverdue      = "overdue_invoices"
	JobExpiry       = "contract_expiry"
)

// RentInvoiceGenerator generates a month's rent invoices for an account
type RentInvoiceGenerator interface {
	Generate(ctx context.Context, accountID uuid.UUID, month time.Time) (*billing.GenerationResult, error)
}

// OverdueMarker flags unpaid invoices past their due date
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, accountID uuid.UUID) (int, error)
}

// ContractExpirer expires support contracts past their expiry date
type ContractExpirer interface {
	ExpireDue(ctx context.Context, accountID uuid.UUID) (*quotationapp.ExpireResult, error)
}

// QuotationExpirer expires quotations past their validity
type QuotationExpirer interface {
	ExpireDue(ctx context.Context, accountID uuid.UUID) (int, error)
}

// ExpiryNotifier warns about contracts nearing expiry
type ExpiryNotifier interface {
	NotifyExpiring(ctx context.Context, accountID uuid.UUID) (int, error)
}

var (
	_ RentInvoiceGenerator = (*billingapp.RentInvoiceService)(nil)
	_ OverdueMarker        = (*billingapp.RentInvoiceService)(nil)
	_ ContractExpirer      = (*quotationapp.ContractService)(nil)
	_ QuotationExpirer     = (*quotationapp.QuotationService)(nil)
)

// GenerationDayGuard fires on the configured day of the month. A day past
// the end of a short month fires on its last day.
func GenerationDayGuard(day int) Guard {
	return func(now time.Time) bool {
		if day < 1 {
			return true
		}
		target := day
		if last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day(); target > last {
			target = last
		}
		return now.Day() == target
	}
}

// RentInvoiceTask generates the current month's invoices. A run that finds
// another generation in progress is not an error.
func RentInvoiceTask(gen RentInvoiceGenerator, now func() time.Time, logger *zap.Logger) Task {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, accountID uuid.UUID) error {
		result, err := gen.Generate(ctx, accountID, now())
		if errors.Is(err, billing.ErrGenerationInProgress) {
			logger.Info("Rent invoice generation already running", zap.String("account_id", accountID.String()))
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Rent invoices generated",
			zap.String("account_id", accountID.String()),
			zap.String("month", result.Month),
			zap.Int("generated", result.Generated),
			zap.Int("skipped", result.Skipped))
		return nil
	}
}

// OverdueTask marks overdue invoices
func OverdueTask(marker OverdueMarker, logger *zap.Logger) Task {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, accountID uuid.UUID) error {
		n, err := marker.MarkOverdue(ctx, accountID)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Invoices marked overdue", zap.String("account_id", accountID.String()), zap.Int("count", n))
		}
		return nil
	}
}

// ExpiryTask expires contracts and quotations, then announces contracts
// about to expire. Each step runs even when an earlier one fails.
func ExpiryTask(contracts ContractExpirer, quotations QuotationExpirer, notifier ExpiryNotifier, logger *zap.Logger) Task {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, accountID uuid.UUID) error {
		var errs []error
		if contracts != nil {
			res, err := contracts.ExpireDue(ctx, accountID)
			if err != nil {
				errs = append(errs, err)
			} else if res.Expired > 0 {
				logger.Info("Support contracts expired",
					zap.String("account_id", accountID.String()),
					zap.Strings("contracts", res.ContractNumbers))
			}
		}
		if quotations != nil {
			n, err := quotations.ExpireDue(ctx, accountID)
			if err != nil {
				errs = append(errs, err)
			} else if n > 0 {
				logger.Info("Quotations expired", zap.String("account_id", accountID.String()), zap.Int("count", n))
			}
		}
		if notifier != nil {
			if _, err := notifier.NotifyExpiring(ctx, accountID); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

package migration

import (
	"fmt"

	"github.com/rentquote/backend/internal/domain/audit"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []any {
	return []any{
		&catalog.Category{},
		&catalog.Product{},
		&quotation.Customer{},
		&quotation.Quotation{},
		&quotation.Item{},
		&quotation.TermsTemplate{},
		&quotation.SupportContract{},
		&persistence.QuotationSequence{},
		&property.Property{},
		&property.Unit{},
		&property.Tenant{},
		&property.Lease{},
		&property.OccupancyHistory{},
		&billing.InvoiceTemplate{},
		&billing.RentInvoice{},
		&billing.LedgerEntry{},
		&billing.Payment{},
		&persistence.DocumentNumber{},
		&notification.Notification{},
		&audit.Log{},
	}
}

// AutoMigrate creates the schema from the GORM models. It serves SQLite
// development databases; PostgreSQL goes through the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

package persistence

import (
	"testing"

	"github.com/rentquote/backend/internal/domain/audit"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with every table migrated. A
// single connection keeps the in-memory database shared by all queries.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&quotation.Customer{},
		&quotation.Quotation{},
		&quotation.Item{},
		&quotation.TermsTemplate{},
		&quotation.SupportContract{},
		&property.Property{},
		&property.Unit{},
		&property.Tenant{},
		&property.Lease{},
		&property.OccupancyHistory{},
		&billing.InvoiceTemplate{},
		&billing.RentInvoice{},
		&billing.LedgerEntry{},
		&billing.Payment{},
		&notification.Notification{},
		&audit.Log{},
		&QuotationSequence{},
		&DocumentNumber{},
	))
	return db
}

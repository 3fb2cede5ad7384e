package persistence

import (
	"context"

	billingapp "github.com/rentquote/backend/internal/application/billing"
	catalogapp "github.com/rentquote/backend/internal/application/catalog"
	propertyapp "github.com/rentquote/backend/internal/application/property"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormPropertyTransactionScope implements the lease TransactionScope using
// GORM transactions
type GormPropertyTransactionScope struct {
	db *gorm.DB
}

// NewGormPropertyTransactionScope creates a new GormPropertyTransactionScope
func NewGormPropertyTransactionScope(db *gorm.DB) *GormPropertyTransactionScope {
	return &GormPropertyTransactionScope{db: db}
}

// Execute runs fn in one transaction, rolling back when it returns an error
func (s *GormPropertyTransactionScope) Execute(ctx context.Context, fn func(repos propertyapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPropertyRepositories{tx: tx})
	})
}

type gormPropertyRepositories struct {
	tx *gorm.DB
}

func (r *gormPropertyRepositories) LeaseRepo() property.LeaseRepository {
	return NewGormLeaseRepository(r.tx)
}

func (r *gormPropertyRepositories) UnitRepo() property.UnitRepository {
	return NewGormUnitRepository(r.tx)
}

func (r *gormPropertyRepositories) TenantRepo() property.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormPropertyRepositories) OccupancyRepo() property.OccupancyRepository {
	return NewGormOccupancyRepository(r.tx)
}

// GormLedgerTransactionScope implements the ledger TransactionScope using
// GORM transactions
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs fn in one transaction, rolling back when it returns an error
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos billingapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

func (r *gormLedgerRepositories) LedgerRepo() billing.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// GormCategoryTransactionScope implements the category TransactionScope
// using GORM transactions
type GormCategoryTransactionScope struct {
	db *gorm.DB
}

// NewGormCategoryTransactionScope creates a new GormCategoryTransactionScope
func NewGormCategoryTransactionScope(db *gorm.DB) *GormCategoryTransactionScope {
	return &GormCategoryTransactionScope{db: db}
}

// Execute runs fn in one transaction, rolling back when it returns an error
func (s *GormCategoryTransactionScope) Execute(ctx context.Context, fn func(repos catalogapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCategoryRepositories{tx: tx})
	})
}

type gormCategoryRepositories struct {
	tx *gorm.DB
}

func (r *gormCategoryRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

var (
	_ propertyapp.TransactionScope          = (*GormPropertyTransactionScope)(nil)
	_ propertyapp.TransactionalRepositories = (*gormPropertyRepositories)(nil)
	_ billingapp.TransactionScope           = (*GormLedgerTransactionScope)(nil)
	_ billingapp.TransactionalRepositories  = (*gormLedgerRepositories)(nil)
	_ catalogapp.TransactionScope           = (*GormCategoryTransactionScope)(nil)
	_ catalogapp.TransactionalRepositories  = (*gormCategoryRepositories)(nil)
)

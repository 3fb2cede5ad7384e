package billing

import (
	"context"

	"github.com/rentquote/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to the ledger repository.
// A posting, its balance recalculation and the tenant lock all share one
// database transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the current transaction
type TransactionalRepositories interface {
	LedgerRepo() billing.LedgerRepository
}

// NoOpTransactionScope runs fn directly against the given repository
type NoOpTransactionScope struct {
	ledgerRepo billing.LedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(ledgerRepo billing.LedgerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{ledgerRepo: ledgerRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LedgerRepo returns the ledger repository
func (s *NoOpTransactionScope) LedgerRepo() billing.LedgerRepository {
	return s.ledgerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

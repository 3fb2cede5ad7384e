package catalog

import (
	"context"

	"github.com/rentquote/backend/internal/domain/catalog"
)

// TransactionScope runs a category move and the rewrite of its descendants
// in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the current transaction
type TransactionalRepositories interface {
	CategoryRepo() catalog.CategoryRepository
}

// NoOpTransactionScope runs fn directly against the given repository
type NoOpTransactionScope struct {
	categoryRepo catalog.CategoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(categoryRepo catalog.CategoryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{categoryRepo: categoryRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CategoryRepo returns the category repository
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository {
	return s.categoryRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

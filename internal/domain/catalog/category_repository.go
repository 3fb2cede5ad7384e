package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByIDForAccount finds a category by ID within an account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Category, error)

	// FindAllForAccount finds categories matching the filter
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Category, error)

	// CountForAccount counts categories matching the filter
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// FindAllUnpaged loads every category of the account, for tree building
	FindAllUnpaged(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]Category, error)

	// FindRoot finds the fixed parent category of a type
	FindRoot(ctx context.Context, accountID uuid.UUID, categoryType CategoryType) (*Category, error)

	// FindByIDs loads the given categories, used to resolve ancestor names
	FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// DeleteForAccount deletes a category within an account
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// CountChildren counts the direct children of a category
	CountChildren(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error)

	// CountProducts counts products assigned to the category
	CountProducts(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error)

	// DeepestDescendantLevel returns the highest level among categories
	// under path, or 0 when there are none
	DeepestDescendantLevel(ctx context.Context, accountID uuid.UUID, path string) (int, error)

	// ReplacePathPrefix rewrites the path, level and type of every
	// descendant after a move
	ReplacePathPrefix(ctx context.Context, accountID uuid.UUID, oldPrefix, newPrefix string, levelDelta int, categoryType CategoryType) error
}

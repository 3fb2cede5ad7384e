package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo   catalog.CategoryRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService. A nil txScope runs moves
// directly on categoryRepo.
func NewCategoryService(categoryRepo catalog.CategoryRepository, txScope TransactionScope) *CategoryService {
	if txScope == nil {
		txScope = NewNoOpTransactionScope(categoryRepo)
	}
	return &CategoryService{categoryRepo: categoryRepo, txScope: txScope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// EnsureRoots creates any of the four fixed parent categories that are
// missing for the account
func (s *CategoryService) EnsureRoots(ctx context.Context, accountID uuid.UUID) error {
	for _, t := range catalog.AllCategoryTypes() {
		if _, err := s.root(ctx, accountID, t); err != nil {
			return err
		}
	}
	return nil
}

// Create creates a category under a parent, or under the fixed parent of
// the requested type
func (s *CategoryService) Create(ctx context.Context, accountID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	parent, err := s.resolveParent(ctx, accountID, req.ParentID, req.CategoryType)
	if err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(accountID, req.Name, parent)
	if err != nil {
		return nil, err
	}
	category.Description = req.Description
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.CreatedBy != nil {
		category.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	resp.FullPath, err = s.fullPath(ctx, accountID, category)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetByID retrieves a category with its full path
func (s *CategoryService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	resp.FullPath, err = s.fullPath(ctx, accountID, category)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List retrieves a page of categories
func (s *CategoryService) List(ctx context.Context, accountID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := filter.ToDomain()

	categories, err := s.categoryRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// GetTree returns every category nested under the four fixed parents
func (s *CategoryService) GetTree(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]CategoryTreeNode, error) {
	if err := s.EnsureRoots(ctx, accountID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAllUnpaged(ctx, accountID, activeOnly)
	if err != nil {
		return nil, err
	}

	byID := catalog.IndexByID(categories)
	return toTreeNodes(catalog.BuildTree(categories), byID), nil
}

// GetOptions returns a flat list of active categories labelled with their
// full path, ordered by label
func (s *CategoryService) GetOptions(ctx context.Context, accountID uuid.UUID) ([]CategoryOption, error) {
	if err := s.EnsureRoots(ctx, accountID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAllUnpaged(ctx, accountID, true)
	if err != nil {
		return nil, err
	}

	byID := catalog.IndexByID(categories)
	options := make([]CategoryOption, len(categories))
	for i := range categories {
		c := &categories[i]
		options[i] = CategoryOption{
			ID:           c.ID,
			Label:        catalog.FullPath(c, byID),
			CategoryType: string(c.CategoryType),
			Level:        c.Level,
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options, nil
}

// GetFullPath returns "Parent > Child" for one category
func (s *CategoryService) GetFullPath(ctx context.Context, accountID, id uuid.UUID) (string, error) {
	category, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return "", err
	}
	return s.fullPath(ctx, accountID, category)
}

// Update updates a category. Moving it rewrites the path of every
// descendant.
func (s *CategoryService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := category.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}

	if req.ParentID != nil && (category.ParentID == nil || *category.ParentID != *req.ParentID) {
		parent, err := s.findParent(ctx, accountID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			return moveCategory(ctx, repos.CategoryRepo(), accountID, category, parent)
		})
		if err != nil {
			return nil, err
		}
	} else if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	resp.FullPath, err = s.fullPath(ctx, accountID, category)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete deletes a category without products or sub-categories
func (s *CategoryService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}

	products, err := s.categoryRepo.CountProducts(ctx, accountID, id)
	if err != nil {
		return err
	}
	children, err := s.categoryRepo.CountChildren(ctx, accountID, id)
	if err != nil {
		return err
	}
	if err := category.CanDelete(children, products); err != nil {
		return err
	}

	return s.categoryRepo.DeleteForAccount(ctx, accountID, id)
}

// moveCategory re-parents category and shifts every descendant's path and
// level along with it
func moveCategory(ctx context.Context, repo catalog.CategoryRepository, accountID uuid.UUID, category, parent *catalog.Category) error {
	deepest, err := repo.DeepestDescendantLevel(ctx, accountID, category.Path)
	if err != nil {
		return err
	}
	subtreeDepth := 0
	if deepest > category.Level {
		subtreeDepth = deepest - category.Level
	}

	oldLevel := category.Level
	oldPath, err := category.MoveTo(parent, subtreeDepth)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, category); err != nil {
		return err
	}
	return repo.ReplacePathPrefix(ctx, accountID, oldPath, category.Path, category.Level-oldLevel, category.CategoryType)
}

func (s *CategoryService) resolveParent(ctx context.Context, accountID uuid.UUID, parentID *uuid.UUID, categoryType string) (*catalog.Category, error) {
	if parentID != nil {
		return s.findParent(ctx, accountID, *parentID)
	}
	if categoryType == "" {
		return nil, catalog.ErrParentRequired
	}
	t := catalog.CategoryType(categoryType)
	if !t.IsValid() {
		return nil, catalog.ErrInvalidCategoryType
	}
	return s.root(ctx, accountID, t)
}

func (s *CategoryService) findParent(ctx context.Context, accountID, parentID uuid.UUID) (*catalog.Category, error) {
	parent, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
		}
		return nil, err
	}
	return parent, nil
}

// root loads the fixed parent of a type, creating it on first use
func (s *CategoryService) root(ctx context.Context, accountID uuid.UUID, t catalog.CategoryType) (*catalog.Category, error) {
	root, err := s.categoryRepo.FindRoot(ctx, accountID, t)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	root, err = catalog.NewRootCategory(accountID, t)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, root); err != nil {
		return nil, err
	}
	return root, shared.PublishPending(ctx, s.eventPublisher, root)
}

func (s *CategoryService) fullPath(ctx context.Context, accountID uuid.UUID, category *catalog.Category) (string, error) {
	ancestorIDs := category.GetAncestorIDs()
	if len(ancestorIDs) == 0 {
		return category.Name, nil
	}
	ancestors, err := s.categoryRepo.FindByIDs(ctx, accountID, ancestorIDs)
	if err != nil {
		return "", err
	}
	return catalog.FullPath(category, catalog.IndexByID(ancestors)), nil
}

func toTreeNodes(nodes []*catalog.CategoryNode, byID map[uuid.UUID]*catalog.Category) []CategoryTreeNode {
	out := make([]CategoryTreeNode, len(nodes))
	for i, n := range nodes {
		resp := ToCategoryResponse(n.Category)
		resp.FullPath = catalog.FullPath(n.Category, byID)
		out[i] = CategoryTreeNode{
			CategoryResponse: resp,
			Children:         toTreeNodes(n.Children, byID),
		}
	}
	return out
}

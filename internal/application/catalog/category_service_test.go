package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) FindAllUnpaged(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]catalog.Category, error) {
	args := m.Called(ctx, accountID, activeOnly)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindRoot(ctx context.Context, accountID uuid.UUID, categoryType catalog.CategoryType) (*catalog.Category, error) {
	args := m.Called(ctx, accountID, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountChildren(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) DeepestDescendantLevel(ctx context.Context, accountID uuid.UUID, path string) (int, error) {
	args := m.Called(ctx, accountID, path)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) ReplacePathPrefix(ctx context.Context, accountID uuid.UUID, oldPrefix, newPrefix string, levelDelta int, categoryType catalog.CategoryType) error {
	args := m.Called(ctx, accountID, oldPrefix, newPrefix, levelDelta, categoryType)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func mustRoot(t *testing.T, accountID uuid.UUID, categoryType catalog.CategoryType) *catalog.Category {
	t.Helper()
	root, err := catalog.NewRootCategory(accountID, categoryType)
	require.NoError(t, err)
	root.ClearDomainEvents()
	return root
}

func mustChild(t *testing.T, accountID uuid.UUID, name string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(accountID, name, parent)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("creates under the fixed parent of the type", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		publisher := new(MockEventPublisher)
		svc := NewCategoryService(repo, nil)
		svc.SetEventPublisher(publisher)

		root := mustRoot(t, accountID, catalog.CategoryTypeHardware)
		repo.On("FindRoot", ctx, accountID, catalog.CategoryTypeHardware).Return(root, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)
		repo.On("FindByIDs", ctx, accountID, []uuid.UUID{root.ID}).Return([]catalog.Category{*root}, nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, accountID, CreateCategoryRequest{
			Name:         "Servers",
			CategoryType: string(catalog.CategoryTypeHardware),
		})

		require.NoError(t, err)
		assert.Equal(t, "Servers", resp.Name)
		assert.Equal(t, 1, resp.Level)
		assert.Equal(t, &root.ID, resp.ParentID)
		assert.Equal(t, root.Name+" > Servers", resp.FullPath)
		repo.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("creates the missing fixed parent first", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo, nil)

		repo.On("FindRoot", ctx, accountID, catalog.CategoryTypeServices).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)
		repo.On("FindByIDs", ctx, accountID, mock.Anything).Return([]catalog.Category{}, nil)

		resp, err := svc.Create(ctx, accountID, CreateCategoryRequest{
			Name:         "Consulting",
			CategoryType: string(catalog.CategoryTypeServices),
		})

		require.NoError(t, err)
		assert.Equal(t, "services", resp.CategoryType)
		repo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("unknown parent is rejected", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo, nil)
		parentID := uuid.New()

		repo.On("FindByIDForAccount", ctx, accountID, parentID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, accountID, CreateCategoryRequest{Name: "Orphan", ParentID: &parentID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("neither parent nor type", func(t *testing.T) {
		svc := NewCategoryService(new(MockCategoryRepository), nil)

		_, err := svc.Create(ctx, accountID, CreateCategoryRequest{Name: "Loose"})

		assert.ErrorIs(t, err, catalog.ErrParentRequired)
	})
}

func TestCategoryService_Update_MoveRewritesDescendants(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)

	hardware := mustRoot(t, accountID, catalog.CategoryTypeHardware)
	software := mustRoot(t, accountID, catalog.CategoryTypeSoftware)
	moving := mustChild(t, accountID, "Licences", hardware)
	oldPath := moving.Path

	repo.On("FindByIDForAccount", ctx, accountID, moving.ID).Return(moving, nil)
	repo.On("FindByIDForAccount", ctx, accountID, software.ID).Return(software, nil)
	repo.On("DeepestDescendantLevel", ctx, accountID, oldPath).Return(0, nil)
	repo.On("Save", ctx, moving).Return(nil)
	repo.On("ReplacePathPrefix", ctx, accountID, oldPath, software.Path+"/"+moving.ID.String(), 0, catalog.CategoryTypeSoftware).Return(nil)
	repo.On("FindByIDs", ctx, accountID, []uuid.UUID{software.ID}).Return([]catalog.Category{*software}, nil)

	resp, err := svc.Update(ctx, accountID, moving.ID, UpdateCategoryRequest{ParentID: &software.ID})

	require.NoError(t, err)
	assert.Equal(t, "software", resp.CategoryType)
	assert.Equal(t, software.Name+" > Licences", resp.FullPath)
	repo.AssertExpectations(t)
}

func TestCategoryService_Update_MoveRefusesTooDeepSubtree(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)

	hardware := mustRoot(t, accountID, catalog.CategoryTypeHardware)
	software := mustRoot(t, accountID, catalog.CategoryTypeSoftware)
	tools := mustChild(t, accountID, "Tools", software)
	editors := mustChild(t, accountID, "Editors", tools)
	moving := mustChild(t, accountID, "Servers", hardware)

	repo.On("FindByIDForAccount", ctx, accountID, moving.ID).Return(moving, nil)
	repo.On("FindByIDForAccount", ctx, accountID, editors.ID).Return(editors, nil)
	// Servers has descendants down to level 3, two levels below it
	repo.On("DeepestDescendantLevel", ctx, accountID, moving.Path).Return(3, nil)

	_, err := svc.Update(ctx, accountID, moving.ID, UpdateCategoryRequest{ParentID: &editors.ID})

	assert.ErrorIs(t, err, catalog.ErrMaxDepthExceeded)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ReplacePathPrefix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	root := mustRoot(t, accountID, catalog.CategoryTypeSpareParts)

	tests := []struct {
		name     string
		target   *catalog.Category
		children int64
		products int64
		wantErr  error
	}{
		{name: "fixed parent", target: root, wantErr: catalog.ErrRootCategoryImmutable},
		{name: "has products", target: mustChild(t, accountID, "Fans", root), products: 2, wantErr: catalog.ErrCategoryHasProducts},
		{name: "has children", target: mustChild(t, accountID, "Disks", root), children: 1, wantErr: catalog.ErrCategoryHasChildren},
		{name: "empty leaf", target: mustChild(t, accountID, "Cables", root)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCategoryRepository)
			svc := NewCategoryService(repo, nil)

			repo.On("FindByIDForAccount", ctx, accountID, tt.target.ID).Return(tt.target, nil)
			repo.On("CountProducts", ctx, accountID, tt.target.ID).Return(tt.products, nil)
			repo.On("CountChildren", ctx, accountID, tt.target.ID).Return(tt.children, nil)
			repo.On("DeleteForAccount", ctx, accountID, tt.target.ID).Return(nil)

			err := svc.Delete(ctx, accountID, tt.target.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "DeleteForAccount", ctx, accountID, tt.target.ID)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "DeleteForAccount", ctx, accountID, tt.target.ID)
		})
	}
}

func TestCategoryService_GetOptions(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)

	roots := map[catalog.CategoryType]*catalog.Category{}
	for _, ct := range catalog.AllCategoryTypes() {
		roots[ct] = mustRoot(t, accountID, ct)
		repo.On("FindRoot", ctx, accountID, ct).Return(roots[ct], nil)
	}
	hardware := roots[catalog.CategoryTypeHardware]
	servers := mustChild(t, accountID, "Servers", hardware)
	all := []catalog.Category{*servers}
	for _, r := range roots {
		all = append(all, *r)
	}
	repo.On("FindAllUnpaged", ctx, accountID, true).Return(all, nil)

	options, err := svc.GetOptions(ctx, accountID)

	require.NoError(t, err)
	require.Len(t, options, 5)
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	assert.Contains(t, labels, hardware.Name+" > Servers")
	assert.IsIncreasing(t, labels)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

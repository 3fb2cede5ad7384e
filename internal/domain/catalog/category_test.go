package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCategory(t *testing.T) {
	accountID := uuid.New()

	t.Run("creates root for each fixed type", func(t *testing.T) {
		for _, ct := range AllCategoryTypes() {
			root, err := NewRootCategory(accountID, ct)
			require.NoError(t, err)
			assert.True(t, root.IsRoot())
			assert.Equal(t, ct, root.CategoryType)
			assert.Equal(t, ct.DisplayName(), root.Name)
			assert.Equal(t, root.ID.String(), root.Path)
			assert.Equal(t, 0, root.Level)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewRootCategory(accountID, CategoryType("furniture"))
		assert.ErrorIs(t, err, ErrInvalidCategoryType)
	})
}

func TestNewCategory(t *testing.T) {
	accountID := uuid.New()
	root, err := NewRootCategory(accountID, CategoryTypeHardware)
	require.NoError(t, err)

	t.Run("inherits type and extends path", func(t *testing.T) {
		child, err := NewCategory(accountID, "  Servers ", root)
		require.NoError(t, err)

		assert.Equal(t, "Servers", child.Name)
		assert.Equal(t, CategoryTypeHardware, child.CategoryType)
		assert.Equal(t, root.ID, *child.ParentID)
		assert.Equal(t, 1, child.Level)
		assert.Equal(t, root.Path+"/"+child.ID.String(), child.Path)
		assert.True(t, root.IsAncestorOf(child))
		assert.Equal(t, []uuid.UUID{root.ID}, child.GetAncestorIDs())
	})

	t.Run("requires a parent", func(t *testing.T) {
		_, err := NewCategory(accountID, "Orphan", nil)
		assert.ErrorIs(t, err, ErrParentRequired)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory(accountID, "   ", root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("enforces maximum depth", func(t *testing.T) {
		parent := root
		for i := 1; i < MaxCategoryDepth; i++ {
			parent, err = NewCategory(accountID, "Level", parent)
			require.NoError(t, err)
		}
		_, err := NewCategory(accountID, "Too deep", parent)
		assert.ErrorIs(t, err, ErrMaxDepthExceeded)
	})

	t.Run("publishes CategoryCreated event", func(t *testing.T) {
		child, err := NewCategory(accountID, "Storage", root)
		require.NoError(t, err)
		events := child.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryCreated, events[0].EventType())
		assert.Equal(t, accountID, events[0].AccountID())
	})
}

func TestCategory_MoveTo(t *testing.T) {
	accountID := uuid.New()
	hardware, _ := NewRootCategory(accountID, CategoryTypeHardware)
	software, _ := NewRootCategory(accountID, CategoryTypeSoftware)
	servers, _ := NewCategory(accountID, "Servers", hardware)
	rack, _ := NewCategory(accountID, "Rack", servers)

	t.Run("refuses to move under a descendant", func(t *testing.T) {
		_, err := servers.MoveTo(rack, 0)
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("refuses to move under itself", func(t *testing.T) {
		_, err := servers.MoveTo(servers, 0)
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("roots cannot move", func(t *testing.T) {
		_, err := hardware.MoveTo(software, 0)
		assert.ErrorIs(t, err, ErrRootCategoryImmutable)
	})

	t.Run("deepest descendant must stay within the depth limit", func(t *testing.T) {
		storage, _ := NewCategory(accountID, "Storage", hardware)
		arrays, _ := NewCategory(accountID, "Arrays", storage)
		shelves, _ := NewCategory(accountID, "Shelves", arrays)
		require.Equal(t, 3, shelves.Level)

		// rack sits one level below servers
		_, err := servers.MoveTo(shelves, 1)
		assert.ErrorIs(t, err, ErrMaxDepthExceeded)
		assert.Equal(t, hardware.ID, *servers.ParentID)

		_, err = servers.MoveTo(arrays, 1)
		require.NoError(t, err)
		_, err = servers.MoveTo(hardware, 1)
		require.NoError(t, err)
	})

	t.Run("moves to another tree and adopts its type", func(t *testing.T) {
		oldPath, err := servers.MoveTo(software, 0)
		require.NoError(t, err)
		assert.Equal(t, hardware.Path+"/"+servers.ID.String(), oldPath)
		assert.Equal(t, software.Path+"/"+servers.ID.String(), servers.Path)
		assert.Equal(t, CategoryTypeSoftware, servers.CategoryType)
		assert.Equal(t, software.ID, *servers.ParentID)
	})
}

func TestCategory_CanDelete(t *testing.T) {
	accountID := uuid.New()
	root, _ := NewRootCategory(accountID, CategoryTypeServices)
	child, _ := NewCategory(accountID, "Consulting", root)

	assert.ErrorIs(t, root.CanDelete(0, 0), ErrRootCategoryImmutable)
	assert.ErrorIs(t, child.CanDelete(0, 3), ErrCategoryHasProducts)
	assert.ErrorIs(t, child.CanDelete(2, 0), ErrCategoryHasChildren)
	assert.NoError(t, child.CanDelete(0, 0))
}

func TestBuildTreeAndFullPath(t *testing.T) {
	accountID := uuid.New()
	root, _ := NewRootCategory(accountID, CategoryTypeHardware)
	b, _ := NewCategory(accountID, "Networking", root)
	a, _ := NewCategory(accountID, "Computers", root)
	leaf, _ := NewCategory(accountID, "Laptops", a)

	categories := []Category{*leaf, *b, *root, *a}
	tree := BuildTree(categories)

	require.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].Category.ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Computers", tree[0].Children[0].Category.Name)
	assert.Equal(t, "Networking", tree[0].Children[1].Category.Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Laptops", tree[0].Children[0].Children[0].Category.Name)

	byID := IndexByID(categories)
	assert.Equal(t, "Hardware > Computers > Laptops", FullPath(leaf, byID))
	assert.Equal(t, "Hardware", FullPath(root, byID))
}

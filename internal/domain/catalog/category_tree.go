package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FullPathSeparator joins ancestor names in a category's full path
const FullPathSeparator = " > "

// CategoryNode is a category with its nested children
type CategoryNode struct {
	Category *Category
	Children []*CategoryNode
}

// BuildTree nests a flat category list. Categories whose parent is missing
// from the list are treated as roots. Siblings are ordered by sort order,
// then name.
func BuildTree(categories []Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{Category: &categories[i]}
	}

	roots := make([]*CategoryNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID != nil {
			if parent, ok := nodes[*categories[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Category, nodes[j].Category
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// FullPath returns "Root > ... > Category" using the names in byID.
// Ancestors missing from byID are skipped.
func FullPath(c *Category, byID map[uuid.UUID]*Category) string {
	names := make([]string, 0, c.Level+1)
	for _, id := range c.GetAncestorIDs() {
		if a, ok := byID[id]; ok {
			names = append(names, a.Name)
		}
	}
	names = append(names, c.Name)
	return strings.Join(names, FullPathSeparator)
}

// IndexByID maps categories by ID for path lookups
func IndexByID(categories []Category) map[uuid.UUID]*Category {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID
}

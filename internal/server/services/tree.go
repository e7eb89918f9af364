package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/server/models"
)

// PageNode is a page in a user's forest, annotated with how the user sees
// it. For owned pages IsShared is false and Permission/OwnerEmail are
// empty; for shared pages they carry the grant level and the owner's email.
type PageNode struct {
	Page       models.Page
	IsShared   bool
	Permission models.PermissionLevel
	OwnerEmail string
	Children   []*PageNode
}

// AssembleForest merges the pages a user owns with the pages shared with
// them into a forest of nested trees. It is a pure function over its two
// inputs so the assembly logic is testable without a storage layer.
//
// The visible set is exactly owned ∪ shared. A page's children in the
// result are only its visible children; an invisible child is silently
// omitted. A visible page whose parent is absent or not visible becomes a
// root: visibility is page-granular, so a shared page with a hidden parent
// surfaces at the top of the sharee's forest.
//
// Siblings and roots are ordered by (case-folded title, id) ascending.
//
// When parentID is non-nil it must name a page in the visible set
// (otherwise ErrorNotFound) and the result is that page's direct children
// with their subtrees.
func AssembleForest(owned []models.Page, shared []models.SharedPage, parentID *string) ([]*PageNode, error) {
	nodes := make(map[string]*PageNode, len(owned)+len(shared))
	order := make([]*PageNode, 0, len(owned)+len(shared))

	for _, p := range owned {
		n := &PageNode{Page: p}
		nodes[p.ID] = n
		order = append(order, n)
	}

	// The shared query already excludes the user's own pages, but guard
	// anyway: an owned page is never marked shared.
	for _, sp := range shared {
		if _, ok := nodes[sp.Page.ID]; ok {
			continue
		}
		n := &PageNode{
			Page:       sp.Page,
			IsShared:   true,
			Permission: sp.Permission,
			OwnerEmail: sp.OwnerEmail,
		}
		nodes[sp.Page.ID] = n
		order = append(order, n)
	}

	// One global sort; children and roots are appended in this order below,
	// so every sibling list comes out sorted without re-sorting per node.
	sort.Slice(order, func(i, j int) bool {
		ti, tj := foldTitle(order[i].Page.Title), foldTitle(order[j].Page.Title)
		if ti != tj {
			return ti < tj
		}
		return order[i].Page.ID < order[j].Page.ID
	})

	// Iterative linking over the flat node map; no recursion, so corrupted
	// hierarchies cannot blow the stack. Members of a (never expected)
	// visible cycle all have visible parents and thus drop out of the roots.
	var roots []*PageNode
	for _, n := range order {
		if pid := n.Page.ParentID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	if parentID != nil {
		parent, ok := nodes[*parentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent page", common.ErrorNotFound)
		}
		return parent.Children, nil
	}

	return roots, nil
}

// foldTitle is the case-insensitive ordering key for titles.
func foldTitle(s string) string {
	return strings.ToLower(s)
}

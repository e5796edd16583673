package dto

// TreeNode is the UI-facing materialization of a binary subtree, bounded by an
// explicit maxDepth (distinct from the unbounded counting traversal).
type TreeNode struct {
	MemberID   string    `json:"memberID"`
	MemberCode string    `json:"memberCode"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"isActive"`
	Left       *TreeNode `json:"left,omitempty"`
	Right      *TreeNode `json:"right,omitempty"`
}

// TreeQueryParams defines query parameters for the tree view.
type TreeQueryParams struct {
	MaxDepth int `form:"maxDepth,default=3"`
}

package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
)

// TreeSvcFacade walks the sponsor chain and the binary placement tree.
type TreeSvcFacade interface {
	// UplineChain follows sponsor links starting at level 1, stopping at
	// maxLevel, at a member with no sponsor, or on a repeated reference.
	UplineChain(ctx context.Context, memberID string, maxLevel int) ([]domain.UplineEntry, error)

	// SubtreeSize counts all nodes reachable through binary children from the
	// given node, the node itself included.
	SubtreeSize(ctx context.Context, rootID string) (int, error)

	// TreeStats returns leg sizes and the potential-pairs metric.
	TreeStats(ctx context.Context, memberID string) (*domain.TreeStats, error)

	// MaterializeTree builds a bounded tree view for the UI.
	MaterializeTree(ctx context.Context, rootID string, maxDepth int) (*dto.TreeNode, error)

	// PlaceInTree puts the new member into the sponsor's first empty binary
	// slot, left before right. placed is false when both slots are taken; the
	// sponsor edge stands regardless.
	PlaceInTree(ctx context.Context, sponsorID string, newMemberID string, actorID string) (side domain.LegSide, placed bool, err error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
)

// MaxUplineLevels caps every sponsor-chain walk. All commission cascades stop
// at this depth.
const MaxUplineLevels = 5

// subtreeBatchSize is how many child IDs are fetched per round trip during the
// counting traversal.
const subtreeBatchSize = 200

// treeService walks the sponsor chain and the binary placement tree. All
// traversals are iterative with visited sets so corrupted (cyclic) data
// terminates instead of recursing forever.
type treeService struct {
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewTreeService creates a new TreeService.
func NewTreeService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.TreeSvcFacade {
	return &treeService{memberRepo: memberRepo}
}

var _ portssvc.TreeSvcFacade = (*treeService)(nil)

// UplineChain follows sponsor links starting at level 1. The walk stops at
// maxLevel, at a member with no sponsor, at a dangling reference, or when a
// member repeats. A repeat means a sponsor cycle in the data; the chain built
// so far is still valid and is returned.
func (s *treeService) UplineChain(ctx context.Context, memberID string, maxLevel int) ([]domain.UplineEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if maxLevel <= 0 || maxLevel > MaxUplineLevels {
		maxLevel = MaxUplineLevels
	}

	start, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	chain := []domain.UplineEntry{}
	visited := map[string]struct{}{start.MemberID: {}}
	current := start

	for level := 1; level <= maxLevel; level++ {
		if current.SponsorID == nil {
			break
		}
		sponsorID := *current.SponsorID
		if _, seen := visited[sponsorID]; seen {
			logger.Warn("sponsor cycle detected, truncating upline walk",
				slog.String("member_id", memberID),
				slog.String("repeated_id", sponsorID))
			break
		}

		sponsor, err := s.memberRepo.FindMemberByID(ctx, sponsorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("dangling sponsor reference, truncating upline walk",
					slog.String("member_id", current.MemberID),
					slog.String("sponsor_id", sponsorID))
				break
			}
			return nil, err
		}

		visited[sponsorID] = struct{}{}
		chain = append(chain, domain.UplineEntry{Member: *sponsor, Level: level})
		current = sponsor
	}

	return chain, nil
}

// SubtreeSize counts all nodes reachable through binary children from rootID,
// the root included. The traversal is an iterative worklist with a visited
// set; children are fetched in batches rather than one query per node.
func (s *treeService) SubtreeSize(ctx context.Context, rootID string) (int, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, rootID); err != nil {
		return 0, err
	}

	visited := map[string]struct{}{}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		batch := frontier
		if len(batch) > subtreeBatchSize {
			batch = batch[:subtreeBatchSize]
			frontier = frontier[subtreeBatchSize:]
		} else {
			frontier = nil
		}

		fetch := make([]string, 0, len(batch))
		for _, id := range batch {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			fetch = append(fetch, id)
		}
		if len(fetch) == 0 {
			continue
		}

		members, err := s.memberRepo.FindMembersByIDs(ctx, fetch)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch subtree batch: %w", err)
		}

		for _, id := range fetch {
			member, ok := members[id]
			if !ok {
				// Dangling child reference; the node does not exist so it
				// does not count and has no children.
				delete(visited, id)
				continue
			}
			if member.LeftChildID != nil {
				frontier = append(frontier, *member.LeftChildID)
			}
			if member.RightChildID != nil {
				frontier = append(frontier, *member.RightChildID)
			}
		}
	}

	return len(visited), nil
}

// TreeStats returns leg sizes, the potential-pairs metric and the direct
// counts for one member.
func (s *treeService) TreeStats(ctx context.Context, memberID string) (*domain.TreeStats, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	leftSize := 0
	if member.LeftChildID != nil {
		leftSize, err = s.SubtreeSize(ctx, *member.LeftChildID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	rightSize := 0
	if member.RightChildID != nil {
		rightSize, err = s.SubtreeSize(ctx, *member.RightChildID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	pairs := leftSize
	if rightSize < pairs {
		pairs = rightSize
	}

	return &domain.TreeStats{
		MemberID:       member.MemberID,
		LeftLegSize:    leftSize,
		RightLegSize:   rightSize,
		PotentialPairs: pairs,
		DirectLeft:     member.LeftDirectCount,
		DirectRight:    member.RightDirectCount,
		Booster:        member.Booster,
	}, nil
}

// MaterializeTree builds a bounded tree view. Depth 0 is the root alone; each
// level is fetched as one batch.
func (s *treeService) MaterializeTree(ctx context.Context, rootID string, maxDepth int) (*dto.TreeNode, error) {
	root, err := s.memberRepo.FindMemberByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	rootNode := toTreeNode(root)
	visited := map[string]struct{}{root.MemberID: {}}

	type pending struct {
		node   *dto.TreeNode
		member domain.Member
	}
	level := []pending{{node: rootNode, member: *root}}

	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		childIDs := []string{}
		for _, p := range level {
			if p.member.LeftChildID != nil {
				childIDs = append(childIDs, *p.member.LeftChildID)
			}
			if p.member.RightChildID != nil {
				childIDs = append(childIDs, *p.member.RightChildID)
			}
		}
		if len(childIDs) == 0 {
			break
		}

		children, err := s.memberRepo.FindMembersByIDs(ctx, childIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tree level: %w", err)
		}

		next := []pending{}
		for _, p := range level {
			if p.member.LeftChildID != nil {
				if child, ok := children[*p.member.LeftChildID]; ok {
					if _, seen := visited[child.MemberID]; !seen {
						visited[child.MemberID] = struct{}{}
						node := toTreeNode(&child)
						p.node.Left = node
						next = append(next, pending{node: node, member: child})
					}
				}
			}
			if p.member.RightChildID != nil {
				if child, ok := children[*p.member.RightChildID]; ok {
					if _, seen := visited[child.MemberID]; !seen {
						visited[child.MemberID] = struct{}{}
						node := toTreeNode(&child)
						p.node.Right = node
						next = append(next, pending{node: node, member: child})
					}
				}
			}
		}
		level = next
	}

	return rootNode, nil
}

func toTreeNode(m *domain.Member) *dto.TreeNode {
	return &dto.TreeNode{
		MemberID:   m.MemberID,
		MemberCode: m.MemberCode,
		Name:       m.Name,
		IsActive:   m.IsActive,
	}
}

// PlaceInTree puts the new member into the sponsor's first empty binary slot,
// left before right. When both slots are taken no placement happens; the
// sponsor edge recorded at registration stands regardless. A successful
// placement that brings both direct counts to one or more flips the sponsor's
// booster flag.
func (s *treeService) PlaceInTree(ctx context.Context, sponsorID string, newMemberID string, actorID string) (domain.LegSide, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	placed, err := s.memberRepo.PlaceChild(ctx, sponsorID, newMemberID, domain.LegLeft, actorID, now)
	if err != nil {
		return "", false, err
	}
	side := domain.LegLeft
	if !placed {
		placed, err = s.memberRepo.PlaceChild(ctx, sponsorID, newMemberID, domain.LegRight, actorID, now)
		if err != nil {
			return "", false, err
		}
		side = domain.LegRight
	}
	if !placed {
		logger.Info("both binary slots taken, no placement",
			slog.String("sponsor_id", sponsorID),
			slog.String("member_id", newMemberID))
		return "", false, nil
	}

	sponsor, err := s.memberRepo.FindMemberByID(ctx, sponsorID)
	if err != nil {
		return side, true, err
	}
	if !sponsor.Booster && sponsor.LeftDirectCount >= 1 && sponsor.RightDirectCount >= 1 {
		if err := s.memberRepo.SetBooster(ctx, sponsorID, actorID, now); err != nil {
			return side, true, err
		}
		logger.Info("booster flag set", slog.String("member_id", sponsorID))
	}

	return side, true, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MemberRepositoryFacade provides access to member records. Wallet balances
// are never written through this interface; every balance change goes through
// the ledger repository so that each delta has exactly one transaction.
type MemberRepositoryFacade interface {
	SaveMember(ctx context.Context, member domain.Member) error
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	FindMemberByCode(ctx context.Context, memberCode string) (*domain.Member, error)
	FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error)

	// ListInvestors returns all members with principal > 0, ordered by member ID
	// for a deterministic batch order.
	ListInvestors(ctx context.Context) ([]domain.Member, error)

	// PlaceChild fills the given binary slot of the sponsor with the child and
	// increments the matching direct count. The update is conditional on the
	// slot still being empty; placed reports whether it won.
	PlaceChild(ctx context.Context, sponsorID string, childID string, side domain.LegSide, userID string, now time.Time) (placed bool, err error)

	// SetBooster flips the booster eligibility flag. Monotonic; never cleared.
	SetBooster(ctx context.Context, memberID string, userID string, now time.Time) error

	// AddPrincipal adds to the cumulative staked principal and stamps
	// investment_opened_at when the prior principal was zero.
	AddPrincipal(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) error

	UpdateRole(ctx context.Context, memberID string, role domain.Role, userID string, now time.Time) error
	SetActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error
}

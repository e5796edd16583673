package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	"github.com/StakeNetHQ/stake_network_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for member data.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

const memberColumns = `member_id, member_code, name, password_hash, role, is_active, booster,
	normal_wallet, franchise_wallet, staking_wallet,
	sponsor_id, left_child_id, right_child_id, left_direct_count, right_direct_count,
	principal, investment_opened_at, last_yield_period,
	created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Member to models.Member for DB storage
func toModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:           d.MemberID,
		MemberCode:         d.MemberCode,
		Name:               d.Name,
		PasswordHash:       d.PasswordHash,
		Role:               string(d.Role),
		IsActive:           d.IsActive,
		Booster:            d.Booster,
		NormalWallet:       d.NormalWallet,
		FranchiseWallet:    d.FranchiseWallet,
		StakingWallet:      d.StakingWallet,
		SponsorID:          d.SponsorID,
		LeftChildID:        d.LeftChildID,
		RightChildID:       d.RightChildID,
		LeftDirectCount:    d.LeftDirectCount,
		RightDirectCount:   d.RightDirectCount,
		Principal:          d.Principal,
		InvestmentOpenedAt: d.InvestmentOpenedAt,
		LastYieldPeriod:    d.LastYieldPeriod,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Member from DB to domain.Member
func toDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:           m.MemberID,
		MemberCode:         m.MemberCode,
		Name:               m.Name,
		PasswordHash:       m.PasswordHash,
		Role:               domain.Role(m.Role),
		IsActive:           m.IsActive,
		Booster:            m.Booster,
		NormalWallet:       m.NormalWallet,
		FranchiseWallet:    m.FranchiseWallet,
		StakingWallet:      m.StakingWallet,
		SponsorID:          m.SponsorID,
		LeftChildID:        m.LeftChildID,
		RightChildID:       m.RightChildID,
		LeftDirectCount:    m.LeftDirectCount,
		RightDirectCount:   m.RightDirectCount,
		Principal:          m.Principal,
		InvestmentOpenedAt: m.InvestmentOpenedAt,
		LastYieldPeriod:    m.LastYieldPeriod,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// scanMember scans a full member row in memberColumns order.
func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.MemberCode,
		&m.Name,
		&m.PasswordHash,
		&m.Role,
		&m.IsActive,
		&m.Booster,
		&m.NormalWallet,
		&m.FranchiseWallet,
		&m.StakingWallet,
		&m.SponsorID,
		&m.LeftChildID,
		&m.RightChildID,
		&m.LeftDirectCount,
		&m.RightDirectCount,
		&m.Principal,
		&m.InvestmentOpenedAt,
		&m.LastYieldPeriod,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveMember inserts a new member.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	modelMem := toModelMember(member)

	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMem.MemberID,
		modelMem.MemberCode,
		modelMem.Name,
		modelMem.PasswordHash,
		modelMem.Role,
		modelMem.IsActive,
		modelMem.Booster,
		modelMem.NormalWallet,
		modelMem.FranchiseWallet,
		modelMem.StakingWallet,
		modelMem.SponsorID,
		modelMem.LeftChildID,
		modelMem.RightChildID,
		modelMem.LeftDirectCount,
		modelMem.RightDirectCount,
		modelMem.Principal,
		modelMem.InvestmentOpenedAt,
		modelMem.LastYieldPeriod,
		modelMem.CreatedAt,
		modelMem.CreatedBy,
		modelMem.LastUpdatedAt,
		modelMem.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: member with code %s already exists", apperrors.ErrDuplicate, modelMem.MemberCode)
			}
		}
		return fmt.Errorf("failed to save member %s: %w", modelMem.MemberID, err)
	}
	return nil
}

// FindMemberByID retrieves a member by its ID.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`

	modelMem, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}

	domainMem := toDomainMember(modelMem)
	return &domainMem, nil
}

// FindMemberByCode retrieves a member by its human-readable code.
func (r *PgxMemberRepository) FindMemberByCode(ctx context.Context, memberCode string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_code = $1;`

	modelMem, err := scanMember(r.Pool.QueryRow(ctx, query, memberCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by code %s: %w", memberCode, err)
	}

	domainMem := toDomainMember(modelMem)
	return &domainMem, nil
}

// FindMembersByIDs retrieves multiple members by their IDs.
func (r *PgxMemberRepository) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	if len(memberIDs) == 0 {
		return map[string]domain.Member{}, nil
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query members by IDs: %w", err)
	}
	defer rows.Close()

	membersMap := make(map[string]domain.Member)
	for rows.Next() {
		modelMem, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row during batch fetch: %w", err)
		}
		membersMap[modelMem.MemberID] = toDomainMember(modelMem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows during batch fetch: %w", err)
	}

	// Not all requested IDs are necessarily present; the caller checks.
	return membersMap, nil
}

// ListInvestors retrieves all members with a positive staked principal,
// ordered by member ID for a deterministic batch order.
func (r *PgxMemberRepository) ListInvestors(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE principal > 0 ORDER BY member_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		modelMem, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investor row: %w", err)
		}
		members = append(members, toDomainMember(modelMem))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investor rows: %w", err)
	}

	return members, nil
}

// PlaceChild fills a binary slot and increments the matching direct count. The
// WHERE clause keeps the operation conditional on the slot still being empty,
// so each slot is settable exactly once even under concurrent registration.
func (r *PgxMemberRepository) PlaceChild(ctx context.Context, sponsorID string, childID string, side domain.LegSide, userID string, now time.Time) (bool, error) {
	var query string
	switch side {
	case domain.LegLeft:
		query = `
			UPDATE members
			SET left_child_id = $2, left_direct_count = left_direct_count + 1, last_updated_at = $3, last_updated_by = $4
			WHERE member_id = $1 AND left_child_id IS NULL;
		`
	case domain.LegRight:
		query = `
			UPDATE members
			SET right_child_id = $2, right_direct_count = right_direct_count + 1, last_updated_at = $3, last_updated_by = $4
			WHERE member_id = $1 AND right_child_id IS NULL;
		`
	default:
		return false, fmt.Errorf("%w: unknown leg side %q", apperrors.ErrValidation, side)
	}

	cmdTag, err := r.Pool.Exec(ctx, query, sponsorID, childID, now, userID)
	if err != nil {
		return false, fmt.Errorf("failed to place child %s under sponsor %s: %w", childID, sponsorID, err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// SetBooster flips the booster eligibility flag. The flag is monotonic.
func (r *PgxMemberRepository) SetBooster(ctx context.Context, memberID string, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET booster = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE member_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, memberID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set booster flag for member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddPrincipal adds to the cumulative principal; investment_opened_at is
// stamped only when the prior principal was zero and preserved on top-ups.
func (r *PgxMemberRepository) AddPrincipal(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET principal = principal + $2,
		    investment_opened_at = CASE WHEN principal = 0 THEN $3 ELSE investment_opened_at END,
		    last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, memberID, amount, now, userID)
	if err != nil {
		return fmt.Errorf("failed to add principal for member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRole changes a member's role.
func (r *PgxMemberRepository) UpdateRole(ctx context.Context, memberID string, role domain.Role, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET role = $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, memberID, string(role), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update role for member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetActive toggles the lifecycle flag.
func (r *PgxMemberRepository) SetActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, memberID, active, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set active flag for member %s: %w", memberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

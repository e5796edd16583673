package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	"github.com/StakeNetHQ/stake_network_app/internal/models"
	"github.com/StakeNetHQ/stake_network_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, member_id, kind, amount, currency_code, metadata,
	created_at, created_by, last_updated_at, last_updated_by`

func toModelTransaction(d domain.Transaction) (models.Transaction, error) {
	metaBytes, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}
	return models.Transaction{
		TransactionID: d.TransactionID,
		MemberID:      d.MemberID,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Metadata:      metaBytes,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

func toDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	var meta domain.TransactionMetadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to unmarshal metadata for transaction %s: %w", m.TransactionID, err)
		}
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		MemberID:      m.MemberID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Metadata:      meta,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.MemberID,
		&m.Kind,
		&m.Amount,
		&m.CurrencyCode,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// RecordTransaction applies the wallet deltas and inserts the ledger entry in
// one database transaction. The member update is a single conditional UPDATE
// guarded against any wallet going negative; zero rows affected means either
// the member is missing or a delta would overdraw a wallet, and nothing is
// written in either case.
func (r *PgxLedgerRepository) RecordTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas) error {
	modelTxn, err := toModelTransaction(txn)
	if err != nil {
		return err
	}

	for kind := range deltas {
		if !domain.KnownWalletKind(kind) {
			return fmt.Errorf("%w: unknown wallet kind %q", apperrors.ErrValidation, kind)
		}
	}
	normalDelta := deltas[domain.WalletNormal]
	franchiseDelta := deltas[domain.WalletFranchise]
	stakingDelta := deltas[domain.WalletStaking]

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE members
		SET normal_wallet = normal_wallet + $2,
		    franchise_wallet = franchise_wallet + $3,
		    staking_wallet = staking_wallet + $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE member_id = $1
		  AND normal_wallet + $2 >= 0
		  AND franchise_wallet + $3 >= 0
		  AND staking_wallet + $4 >= 0;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		txn.MemberID,
		normalDelta,
		franchiseDelta,
		stakingDelta,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to apply wallet deltas for member %s: %w", txn.MemberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE member_id = $1);`, txn.MemberID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check member %s existence: %w", txn.MemberID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: wallet deltas would overdraw a wallet for member %s", apperrors.ErrInsufficientFunds, txn.MemberID)
	}

	if err := insertTransaction(ctx, tx, modelTxn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecordYieldTransaction credits one period's staking yield. The wallet deltas,
// the last_yield_period advance and the ledger insert are one database
// transaction guarded by a single conditional UPDATE: either the member row
// carries the new period together with the credited balance and the ledger
// entry, or none of it happened. Zero rows affected with the member present
// means the period was already credited and the caller skips the member.
func (r *PgxLedgerRepository) RecordYieldTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas, period string) (bool, error) {
	modelTxn, err := toModelTransaction(txn)
	if err != nil {
		return false, err
	}

	for kind := range deltas {
		if !domain.KnownWalletKind(kind) {
			return false, fmt.Errorf("%w: unknown wallet kind %q", apperrors.ErrValidation, kind)
		}
	}
	normalDelta := deltas[domain.WalletNormal]
	franchiseDelta := deltas[domain.WalletFranchise]
	stakingDelta := deltas[domain.WalletStaking]

	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE members
		SET normal_wallet = normal_wallet + $2,
		    franchise_wallet = franchise_wallet + $3,
		    staking_wallet = staking_wallet + $4,
		    last_yield_period = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE member_id = $1
		  AND COALESCE(last_yield_period, '') <> $5
		  AND normal_wallet + $2 >= 0
		  AND franchise_wallet + $3 >= 0
		  AND staking_wallet + $4 >= 0;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		txn.MemberID,
		normalDelta,
		franchiseDelta,
		stakingDelta,
		period,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to credit yield for member %s period %s: %w", txn.MemberID, period, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE member_id = $1);`, txn.MemberID).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check member %s existence: %w", txn.MemberID, err)
		}
		if !exists {
			return false, apperrors.ErrNotFound
		}
		// Yield deltas are credits, so the non-negative guards cannot fire;
		// the member was already credited for this period.
		return false, nil
	}

	if err := insertTransaction(ctx, tx, modelTxn); err != nil {
		return false, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// insertTransaction appends the ledger entry inside an open transaction.
func insertTransaction(ctx context.Context, tx pgx.Tx, modelTxn models.Transaction) error {
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.MemberID,
		modelTxn.Kind,
		modelTxn.Amount,
		modelTxn.CurrencyCode,
		modelTxn.Metadata,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already recorded", apperrors.ErrDuplicate, modelTxn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	modelTxn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	domainTxn, err := toDomainTransaction(modelTxn)
	if err != nil {
		return nil, err
	}
	return &domainTxn, nil
}

// ListTransactionsByMember pages through one member's history newest first,
// keyed on (created_at, transaction_id). Fetches limit+1 rows to decide
// whether a next token is needed.
func (r *PgxLedgerRepository) ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		return nil, nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrValidation)
	}

	args := []any{memberID, limit + 1}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE member_id = $1`

	if nextToken != nil && *nextToken != "" {
		tokenCreatedAt, tokenTxnID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($3, $4)`
		args = append(args, tokenCreatedAt, tokenTxnID)
	}

	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for member %s: %w", memberID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		modelTxn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		domainTxn, err := toDomainTransaction(modelTxn)
		if err != nil {
			return nil, nil, err
		}
		transactions = append(transactions, domainTxn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newNextToken = &token
	}

	return transactions, newNextToken, nil
}

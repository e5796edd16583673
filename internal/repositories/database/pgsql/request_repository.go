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
)

type PgxRequestRepository struct {
	BaseRepository
}

// newPgxRequestRepository creates a new repository for pending requests.
func newPgxRequestRepository(pool *pgxpool.Pool) portsrepo.RequestRepositoryFacade {
	return &PgxRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRequestRepository implements portsrepo.RequestRepositoryFacade
var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

const requestColumns = `request_id, member_id, kind, amount, status, reason, processed_at, processed_by,
	created_at, created_by, last_updated_at, last_updated_by`

func toModelRequest(d domain.PendingRequest) models.PendingRequest {
	var processedBy *string
	if d.ProcessedBy != "" {
		processedBy = &d.ProcessedBy
	}
	return models.PendingRequest{
		RequestID:   d.RequestID,
		MemberID:    d.MemberID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		Status:      string(d.Status),
		Reason:      d.Reason,
		ProcessedAt: d.ProcessedAt,
		ProcessedBy: processedBy,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainRequest(m models.PendingRequest) domain.PendingRequest {
	var processedBy string
	if m.ProcessedBy != nil {
		processedBy = *m.ProcessedBy
	}
	return domain.PendingRequest{
		RequestID:   m.RequestID,
		MemberID:    m.MemberID,
		Kind:        domain.RequestKind(m.Kind),
		Amount:      m.Amount,
		Status:      domain.RequestStatus(m.Status),
		Reason:      m.Reason,
		ProcessedAt: m.ProcessedAt,
		ProcessedBy: processedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanRequest(row pgx.Row) (models.PendingRequest, error) {
	var m models.PendingRequest
	err := row.Scan(
		&m.RequestID,
		&m.MemberID,
		&m.Kind,
		&m.Amount,
		&m.Status,
		&m.Reason,
		&m.ProcessedAt,
		&m.ProcessedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveRequest inserts a new pending request.
func (r *PgxRequestRepository) SaveRequest(ctx context.Context, request domain.PendingRequest) error {
	modelReq := toModelRequest(request)

	query := `
		INSERT INTO pending_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelReq.RequestID,
		modelReq.MemberID,
		modelReq.Kind,
		modelReq.Amount,
		modelReq.Status,
		modelReq.Reason,
		modelReq.ProcessedAt,
		modelReq.ProcessedBy,
		modelReq.CreatedAt,
		modelReq.CreatedBy,
		modelReq.LastUpdatedAt,
		modelReq.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: request %s already exists", apperrors.ErrDuplicate, modelReq.RequestID)
		}
		return fmt.Errorf("failed to save request %s: %w", modelReq.RequestID, err)
	}
	return nil
}

// FindRequestByID retrieves a request by its ID.
func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PendingRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pending_requests WHERE request_id = $1;`

	modelReq, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request by ID %s: %w", requestID, err)
	}

	domainReq := toDomainRequest(modelReq)
	return &domainReq, nil
}

// ListRequestsByStatus lists requests in the given status, oldest first so the
// approval queue is worked in arrival order.
func (r *PgxRequestRepository) ListRequestsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.PendingRequest, error) {
	query := `
		SELECT ` + requestColumns + ` FROM pending_requests
		WHERE status = $1
		ORDER BY created_at ASC, request_id ASC
		LIMIT $2 OFFSET $3;
	`
	return r.listRequests(ctx, query, string(status), limit, offset)
}

// ListRequestsByMember lists one member's requests, newest first.
func (r *PgxRequestRepository) ListRequestsByMember(ctx context.Context, memberID string, limit int, offset int) ([]domain.PendingRequest, error) {
	query := `
		SELECT ` + requestColumns + ` FROM pending_requests
		WHERE member_id = $1
		ORDER BY created_at DESC, request_id DESC
		LIMIT $2 OFFSET $3;
	`
	return r.listRequests(ctx, query, memberID, limit, offset)
}

func (r *PgxRequestRepository) listRequests(ctx context.Context, query string, key string, limit int, offset int) ([]domain.PendingRequest, error) {
	rows, err := r.Pool.Query(ctx, query, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.PendingRequest{}
	for rows.Next() {
		modelReq, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, toDomainRequest(modelReq))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}
	return requests, nil
}

// MarkProcessed transitions a request out of PENDING. The WHERE clause is
// conditional on the current status, so two admins racing on the same request
// resolve to exactly one winner and the transition is terminal.
func (r *PgxRequestRepository) MarkProcessed(ctx context.Context, requestID string, status domain.RequestStatus, reason string, processedBy string, now time.Time) (bool, error) {
	query := `
		UPDATE pending_requests
		SET status = $2, reason = $3, processed_at = $4, processed_by = $5, last_updated_at = $4, last_updated_by = $5
		WHERE request_id = $1 AND status = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, requestID, string(status), reason, now, processedBy, string(domain.RequestPending))
	if err != nil {
		return false, fmt.Errorf("failed to mark request %s processed: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindRequestByID(ctx, requestID)
		if findErr != nil {
			return false, findErr
		}
		return false, nil
	}
	return true, nil
}

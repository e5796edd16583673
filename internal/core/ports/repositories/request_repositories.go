package repositories

import (
	"context"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
)

// RequestRepositoryFacade provides access to pending request records.
type RequestRepositoryFacade interface {
	SaveRequest(ctx context.Context, request domain.PendingRequest) error
	FindRequestByID(ctx context.Context, requestID string) (*domain.PendingRequest, error)
	ListRequestsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.PendingRequest, error)
	ListRequestsByMember(ctx context.Context, memberID string, limit int, offset int) ([]domain.PendingRequest, error)

	// MarkProcessed transitions a request out of PENDING. The update is
	// conditional on the current status; claimed is false when the request was
	// already processed, which makes the transition terminal.
	MarkProcessed(ctx context.Context, requestID string, status domain.RequestStatus, reason string, processedBy string, now time.Time) (claimed bool, err error)
}

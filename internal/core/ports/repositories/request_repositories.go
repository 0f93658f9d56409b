package repositories

import (
	"context"
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LogClosure is one check-in instruction: which log row and in what condition.
type LogClosure struct {
	LogID        string
	ReturnStatus domain.ReturnStatus
}

// ListRequestsFilter narrows request listings.
type ListRequestsFilter struct {
	Status      *domain.RequestStatus
	RequestedBy *string // Non-staff callers are pinned to their own requests
}

// RequestReader defines read operations for equipment requests.
type RequestReader interface {
	// FindRequestByID retrieves a request header.
	FindRequestByID(ctx context.Context, requestID string) (*domain.EquipmentRequest, error)

	// FindRequestedItems retrieves the lines of a request.
	FindRequestedItems(ctx context.Context, requestID string) ([]domain.RequestedItem, error)

	// FindLogsByRequestID retrieves all checkout logs of a request.
	FindLogsByRequestID(ctx context.Context, requestID string) ([]domain.CheckoutLog, error)

	// ListRequests retrieves a filtered, token-paginated page of request headers.
	ListRequests(ctx context.Context, filter ListRequestsFilter, limit int, nextToken *string) ([]domain.EquipmentRequest, *string, error)
}

// RequestWriter defines transactional write operations for the workflow.
// All writers take an open pgx.Tx: the workflow service owns the transaction
// boundary so a failed step leaves no partial records.
type RequestWriter interface {
	// SaveRequestInTx inserts the request header and all its lines.
	SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.EquipmentRequest, lines []domain.RequestedItem) error

	// FindRequestByIDForUpdate locks and retrieves a request header.
	FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.EquipmentRequest, error)

	// FindRequestedItemsInTx retrieves the lines of a request inside the transaction.
	FindRequestedItemsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.RequestedItem, error)

	// UpdateRequestStatusInTx flips the request status, optionally recording admin notes.
	UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, status domain.RequestStatus, adminNotes *string) error

	// SaveCheckoutLogsInTx bulk-inserts checkout log rows.
	SaveCheckoutLogsInTx(ctx context.Context, tx pgx.Tx, logs []domain.CheckoutLog) error

	// FindOpenLogsInTx retrieves the still-open logs of a request.
	FindOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.CheckoutLog, error)

	// CloseLogsInTx stamps the given logs with check-in actor, time and condition.
	CloseLogsInTx(ctx context.Context, tx pgx.Tx, closures []LogClosure, checkedInBy string, checkedInAt time.Time) error

	// CountOpenLogsInTx counts ALL remaining open logs of a request, not just
	// the batch that was processed.
	CountOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) (int64, error)
}

// RequestRepositoryFacade combines all request-related repository interfaces.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}

// RequestRepositoryWithTx extends RequestRepositoryFacade with transaction capabilities.
type RequestRepositoryWithTx interface {
	RequestRepositoryFacade
	TransactionManager
}

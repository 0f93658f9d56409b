package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
)

// Caller is the authenticated identity acting on the workflow.
type Caller struct {
	UserID  string
	IsStaff bool
}

// RequestSvcFacade exposes the equipment request workflow. Every transition
// validates against the domain transition table and runs as one atomic unit
// against the backing store.
type RequestSvcFacade interface {
	// CreateRequest submits a new PENDING request after validating every line
	// against locked, freshly computed availability. All-or-nothing.
	CreateRequest(ctx context.Context, req dto.CreateRequestRequest, requesterUserID string) (*domain.EquipmentRequest, error)

	// GetRequest returns a request with its lines and logs. Non-staff callers
	// may only read their own requests.
	GetRequest(ctx context.Context, requestID string, caller Caller) (*domain.EquipmentRequest, error)

	// ListRequests returns request headers; non-staff callers see only their own.
	ListRequests(ctx context.Context, params dto.ListRequestsParams, caller Caller) (*dto.ListRequestsResponse, error)

	// ApproveRequest transitions PENDING -> APPROVED, re-validating stock.
	ApproveRequest(ctx context.Context, requestID string, actorUserID string) (*domain.EquipmentRequest, error)

	// RejectRequest transitions PENDING|APPROVED -> REJECTED with a reason.
	RejectRequest(ctx context.Context, requestID string, reason string, actorUserID string) (*domain.EquipmentRequest, error)

	// CheckoutRequest transitions APPROVED -> CHECKED_OUT, expanding every
	// line of quantity N into N checkout log rows.
	CheckoutRequest(ctx context.Context, requestID string, actorUserID string) (*domain.EquipmentRequest, error)

	// CheckInRequest applies a batch of log closures and recounts the
	// request's open logs to settle on PARTIAL_RETURN or RETURNED.
	CheckInRequest(ctx context.Context, requestID string, req dto.CheckInRequest, actorUserID string) (*domain.EquipmentRequest, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// InsufficientStockError reports a request line that asked for more units than
// the item has available. It unwraps to apperrors.ErrValidation.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return apperrors.ErrValidation
}

// requestService implements the equipment request workflow. Every transition
// is one database transaction; creation and approval lock the item rows they
// validate so concurrent requests cannot both pass the same stock check.
type requestService struct {
	requestRepo   portsrepo.RequestRepositoryWithTx
	equipmentRepo portsrepo.EquipmentRepositoryFacade
	projectRepo   portsrepo.ProjectRepositoryFacade

	renderer   portssvc.DocumentRenderer
	mailer     portssvc.Mailer
	recipients []string
}

// RequestServiceOption configures optional collaborators of the workflow service.
type RequestServiceOption func(*requestService)

// WithCheckoutNotifier wires the post-commit manifest rendering and mailing.
func WithCheckoutNotifier(renderer portssvc.DocumentRenderer, mailer portssvc.Mailer, recipients []string) RequestServiceOption {
	return func(s *requestService) {
		s.renderer = renderer
		s.mailer = mailer
		s.recipients = recipients
	}
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo portsrepo.RequestRepositoryWithTx,
	equipmentRepo portsrepo.EquipmentRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	opts ...RequestServiceOption,
) portssvc.RequestSvcFacade {
	s := &requestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		projectRepo:   projectRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

// CreateRequest validates every line against locked availability and inserts
// the header plus lines in one transaction. Any failing line aborts the whole
// request.
func (s *requestService) CreateRequest(ctx context.Context, req dto.CreateRequestRequest, requesterUserID string) (*domain.EquipmentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s does not exist", apperrors.ErrValidation, req.ProjectID)
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	itemIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, line := range req.Items {
		if seen[line.ItemID] {
			return nil, fmt.Errorf("%w: item %s appears on more than one line", apperrors.ErrDuplicate, line.ItemID)
		}
		seen[line.ItemID] = true
		itemIDs = append(itemIDs, line.ItemID)
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx) //nolint:errcheck

	items, err := s.equipmentRepo.FindItemsForUpdate(ctx, tx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock items: %w", err)
	}

	if err := validateStock(req.Items, items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := domain.EquipmentRequest{
		RequestID:   uuid.NewString(),
		ProjectID:   req.ProjectID,
		RequestedBy: requesterUserID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
	}

	lines := make([]domain.RequestedItem, len(req.Items))
	for i, line := range req.Items {
		lines[i] = domain.RequestedItem{
			RequestedItemID: uuid.NewString(),
			RequestID:       request.RequestID,
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
		}
	}

	if err := s.requestRepo.SaveRequestInTx(ctx, tx, request, lines); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Equipment request created",
		slog.String("request_id", request.RequestID),
		slog.String("project_id", request.ProjectID),
		slog.Int("lines", len(lines)))

	request.Items = lines
	return &request, nil
}

// validateStock compares every requested line against the locked item rows.
// Missing items surface as validation errors; shortfalls as InsufficientStockError.
func validateStock(reqLines []dto.RequestLine, items map[string]domain.EquipmentItem) error {
	for _, line := range reqLines {
		item, ok := items[line.ItemID]
		if !ok {
			return fmt.Errorf("%w: item %s does not exist", apperrors.ErrValidation, line.ItemID)
		}
		if line.Quantity > item.AvailableQuantity {
			return &InsufficientStockError{
				ItemID:    item.ItemID,
				ItemName:  item.Name,
				Requested: line.Quantity,
				Available: item.AvailableQuantity,
			}
		}
	}
	return nil
}

// GetRequest returns a request with lines and logs. Non-staff callers reading
// someone else's request get a not-found, not a hint the request exists.
func (s *requestService) GetRequest(ctx context.Context, requestID string, caller portssvc.Caller) (*domain.EquipmentRequest, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && request.RequestedBy != caller.UserID {
		return nil, fmt.Errorf("%w: request %s not found", apperrors.ErrNotFound, requestID)
	}

	lines, err := s.requestRepo.FindRequestedItems(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request lines: %w", err)
	}
	logs, err := s.requestRepo.FindLogsByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout logs: %w", err)
	}

	request.Items = lines
	request.Logs = logs
	return request, nil
}

// ListRequests returns a page of request headers. Non-staff callers are pinned
// to their own requests regardless of filter.
func (s *requestService) ListRequests(ctx context.Context, params dto.ListRequestsParams, caller portssvc.Caller) (*dto.ListRequestsResponse, error) {
	filter := portsrepo.ListRequestsFilter{}
	if params.Status != "" {
		status := domain.RequestStatus(params.Status)
		switch status {
		case domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
			domain.StatusCheckedOut, domain.StatusPartialReturn, domain.StatusReturned:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
	}
	if !caller.IsStaff {
		filter.RequestedBy = &caller.UserID
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	requests, nextToken, err := s.requestRepo.ListRequests(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return &dto.ListRequestsResponse{
		Requests:  dto.ToRequestResponses(requests),
		NextToken: nextToken,
	}, nil
}

// ApproveRequest transitions PENDING -> APPROVED. Stock is re-validated under
// the same row locks the create path takes: approval is the moment units
// become committed, so the check must still hold.
func (s *requestService) ApproveRequest(ctx context.Context, requestID string, actorUserID string) (*domain.EquipmentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx) //nolint:errcheck

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextStatus(request.Status, domain.ActionApprove)
	if !ok {
		return nil, fmt.Errorf("%w: cannot approve a request in status %s", apperrors.ErrConflict, request.Status)
	}

	lines, err := s.requestRepo.FindRequestedItemsInTx(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request lines: %w", err)
	}

	itemIDs := make([]string, len(lines))
	reqLines := make([]dto.RequestLine, len(lines))
	for i, line := range lines {
		itemIDs[i] = line.ItemID
		reqLines[i] = dto.RequestLine{ItemID: line.ItemID, Quantity: line.Quantity}
	}

	items, err := s.equipmentRepo.FindItemsForUpdate(ctx, tx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock items: %w", err)
	}
	if err := validateStock(reqLines, items); err != nil {
		return nil, err
	}

	if err := s.requestRepo.UpdateRequestStatusInTx(ctx, tx, requestID, next, nil); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Equipment request approved",
		slog.String("request_id", requestID),
		slog.String("actor", actorUserID))

	request.Status = next
	request.Items = lines
	return request, nil
}

// RejectRequest transitions PENDING or APPROVED -> REJECTED, recording the reason.
func (s *requestService) RejectRequest(ctx context.Context, requestID string, reason string, actorUserID string) (*domain.EquipmentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx) //nolint:errcheck

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextStatus(request.Status, domain.ActionReject)
	if !ok {
		return nil, fmt.Errorf("%w: cannot reject a request in status %s", apperrors.ErrConflict, request.Status)
	}

	if reason == "" {
		reason = "No reason provided."
	}

	if err := s.requestRepo.UpdateRequestStatusInTx(ctx, tx, requestID, next, &reason); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Equipment request rejected",
		slog.String("request_id", requestID),
		slog.String("actor", actorUserID))

	request.Status = next
	request.AdminNotes = reason
	return request, nil
}

// CheckoutRequest transitions APPROVED -> CHECKED_OUT and expands every line of
// quantity N into N checkout log rows, one per physical unit. After the commit
// it renders and mails the manifest, best-effort.
func (s *requestService) CheckoutRequest(ctx context.Context, requestID string, actorUserID string) (*domain.EquipmentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx) //nolint:errcheck

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextStatus(request.Status, domain.ActionCheckout)
	if !ok {
		return nil, fmt.Errorf("%w: cannot check out a request in status %s", apperrors.ErrConflict, request.Status)
	}

	lines, err := s.requestRepo.FindRequestedItemsInTx(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request lines: %w", err)
	}

	now := time.Now().UTC()
	var logs []domain.CheckoutLog
	for _, line := range lines {
		for i := int64(0); i < line.Quantity; i++ {
			logs = append(logs, domain.CheckoutLog{
				LogID:        uuid.NewString(),
				RequestID:    requestID,
				ItemID:       line.ItemID,
				CheckedOutBy: actorUserID,
				CheckedOutAt: now,
			})
		}
	}

	if err := s.requestRepo.SaveCheckoutLogsInTx(ctx, tx, logs); err != nil {
		return nil, fmt.Errorf("failed to save checkout logs: %w", err)
	}
	if err := s.requestRepo.UpdateRequestStatusInTx(ctx, tx, requestID, next, nil); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Equipment request checked out",
		slog.String("request_id", requestID),
		slog.Int("units", len(logs)),
		slog.String("actor", actorUserID))

	request.Status = next
	request.Items = lines
	request.Logs = logs

	s.notifyCheckout(ctx, *request, lines)

	return request, nil
}

// notifyCheckout renders the manifest and mails it. The transition already
// committed, so failures are logged and swallowed.
func (s *requestService) notifyCheckout(ctx context.Context, request domain.EquipmentRequest, lines []domain.RequestedItem) {
	if s.renderer == nil || s.mailer == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	manifest, err := s.renderer.RenderRequestManifest(ctx, request, lines)
	if err != nil {
		logger.Error("Failed to render checkout manifest",
			slog.String("request_id", request.RequestID),
			slog.String("error", err.Error()))
		return
	}

	subject := fmt.Sprintf("Equipment checkout manifest %s", request.RequestID)
	if err := s.mailer.Send(ctx, s.recipients, subject, manifest); err != nil {
		logger.Error("Failed to mail checkout manifest",
			slog.String("request_id", request.RequestID),
			slog.String("error", err.Error()))
	}
}

// CheckInRequest closes a batch of open log rows and recounts what is still
// out to settle the request on PARTIAL_RETURN or RETURNED. The batch is
// all-or-nothing: one bad log reference aborts every closure.
func (s *requestService) CheckInRequest(ctx context.Context, requestID string, req dto.CheckInRequest, actorUserID string) (*domain.EquipmentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	closures := make([]portsrepo.LogClosure, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, line := range req.Items {
		if seen[line.LogID] {
			return nil, fmt.Errorf("%w: log %s appears more than once", apperrors.ErrValidation, line.LogID)
		}
		seen[line.LogID] = true

		status := domain.ReturnStatus(line.Status)
		if !domain.ValidReturnStatus(status) {
			return nil, fmt.Errorf("%w: unknown return status %q", apperrors.ErrValidation, line.Status)
		}
		closures = append(closures, portsrepo.LogClosure{LogID: line.LogID, ReturnStatus: status})
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.requestRepo.Rollback(ctx, tx) //nolint:errcheck

	request, err := s.requestRepo.FindRequestByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(request.Status, domain.ActionCheckIn); !ok {
		return nil, fmt.Errorf("%w: cannot check in a request in status %s", apperrors.ErrConflict, request.Status)
	}

	openLogs, err := s.requestRepo.FindOpenLogsInTx(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open logs: %w", err)
	}
	open := make(map[string]bool, len(openLogs))
	for _, log := range openLogs {
		open[log.LogID] = true
	}
	for _, closure := range closures {
		if !open[closure.LogID] {
			return nil, fmt.Errorf("%w: log %s is not an open log of this request", apperrors.ErrValidation, closure.LogID)
		}
	}

	now := time.Now().UTC()
	if err := s.requestRepo.CloseLogsInTx(ctx, tx, closures, actorUserID, now); err != nil {
		return nil, fmt.Errorf("failed to close logs: %w", err)
	}

	// Recount everything still out, not just this batch: earlier partial
	// returns count toward completion.
	remaining, err := s.requestRepo.CountOpenLogsInTx(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to count open logs: %w", err)
	}

	next := domain.StatusPartialReturn
	if remaining == 0 {
		next = domain.StatusReturned
	}

	if err := s.requestRepo.UpdateRequestStatusInTx(ctx, tx, requestID, next, nil); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Equipment checked in",
		slog.String("request_id", requestID),
		slog.Int("units", len(closures)),
		slog.Int64("still_out", remaining),
		slog.String("actor", actorUserID))

	request.Status = next
	return request, nil
}

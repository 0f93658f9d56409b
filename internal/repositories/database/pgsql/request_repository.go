package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	"github.com/fikiricreative/fikiri_ops_app/internal/utils/pagination"
)

type PgxRequestRepository struct {
	BaseRepository
}

// newPgxRequestRepository creates a new repository for equipment requests.
func newPgxRequestRepository(pool *pgxpool.Pool) portsrepo.RequestRepositoryWithTx {
	return &PgxRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RequestRepositoryWithTx = (*PgxRequestRepository)(nil)

const requestSelectColumns = `request_id, project_id, requested_by, status, admin_notes, created_at`

// scanRequest reads one request header row.
func scanRequest(row pgx.Row) (domain.EquipmentRequest, error) {
	var request domain.EquipmentRequest
	var adminNotes sql.NullString
	err := row.Scan(
		&request.RequestID,
		&request.ProjectID,
		&request.RequestedBy,
		&request.Status,
		&adminNotes,
		&request.CreatedAt,
	)
	if err != nil {
		return domain.EquipmentRequest{}, err
	}
	if adminNotes.Valid {
		request.AdminNotes = adminNotes.String
	}
	return request, nil
}

// scanCheckoutLog reads one checkout log row; the check-in columns are NULL
// while the unit is still out.
func scanCheckoutLog(row pgx.Row) (domain.CheckoutLog, error) {
	var log domain.CheckoutLog
	var checkedInBy sql.NullString
	var checkedInAt sql.NullTime
	var returnStatus sql.NullString

	err := row.Scan(
		&log.LogID,
		&log.RequestID,
		&log.ItemID,
		&log.CheckedOutBy,
		&log.CheckedOutAt,
		&checkedInBy,
		&checkedInAt,
		&returnStatus,
	)
	if err != nil {
		return domain.CheckoutLog{}, err
	}

	if checkedInBy.Valid {
		log.CheckedInBy = &checkedInBy.String
	}
	if checkedInAt.Valid {
		t := checkedInAt.Time
		log.CheckedInAt = &t
	}
	if returnStatus.Valid {
		log.ReturnStatus = domain.ReturnStatus(returnStatus.String)
	}
	return log, nil
}

// FindRequestByID retrieves a request header by its ID.
func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.EquipmentRequest, error) {
	query := `SELECT ` + requestSelectColumns + ` FROM equipment_requests WHERE request_id = $1;`
	request, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request by ID %s: %w", requestID, err)
	}
	return &request, nil
}

// FindRequestByIDForUpdate locks and retrieves a request header. Must be
// called within a transaction; concurrent transitions on the same request
// serialize here.
func (r *PgxRequestRepository) FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.EquipmentRequest, error) {
	query := `SELECT ` + requestSelectColumns + ` FROM equipment_requests WHERE request_id = $1 FOR UPDATE;`
	request, err := scanRequest(tx.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request by ID %s for update: %w", requestID, err)
	}
	return &request, nil
}

// SaveRequestInTx inserts the request header and all its lines in one batch.
func (r *PgxRequestRepository) SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.EquipmentRequest, lines []domain.RequestedItem) error {
	headerQuery := `
		INSERT INTO equipment_requests (request_id, project_id, requested_by, status, admin_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	var adminNotes sql.NullString
	if request.AdminNotes != "" {
		adminNotes = sql.NullString{String: request.AdminNotes, Valid: true}
	}

	if _, err := tx.Exec(ctx, headerQuery,
		request.RequestID,
		request.ProjectID,
		request.RequestedBy,
		request.Status,
		adminNotes,
		request.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to save request %s: %w", request.RequestID, err)
	}

	lineQuery := `
		INSERT INTO requested_items (requested_item_id, request_id, item_id, quantity)
		VALUES ($1, $2, $3, $4);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery, line.RequestedItemID, line.RequestID, line.ItemID, line.Quantity)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique (request, item) pair
				batchErr = fmt.Errorf("%w: item %s appears on more than one line", apperrors.ErrDuplicate, lines[i].ItemID)
			} else {
				batchErr = fmt.Errorf("failed to save request line for item %s: %w", lines[i].ItemID, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close request line batch: %w", err)
	}
	return batchErr
}

// FindRequestedItems retrieves the lines of a request.
func (r *PgxRequestRepository) FindRequestedItems(ctx context.Context, requestID string) ([]domain.RequestedItem, error) {
	return r.findRequestedItems(ctx, r.Pool, requestID)
}

// FindRequestedItemsInTx retrieves the lines of a request inside a transaction.
func (r *PgxRequestRepository) FindRequestedItemsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.RequestedItem, error) {
	return r.findRequestedItems(ctx, tx, requestID)
}

// querier is the subset of pgxpool.Pool and pgx.Tx the read helpers need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxRequestRepository) findRequestedItems(ctx context.Context, q querier, requestID string) ([]domain.RequestedItem, error) {
	query := `
		SELECT requested_item_id, request_id, item_id, quantity
		FROM requested_items
		WHERE request_id = $1
		ORDER BY requested_item_id;
	`
	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query request lines for %s: %w", requestID, err)
	}
	defer rows.Close()

	lines := []domain.RequestedItem{}
	for rows.Next() {
		var line domain.RequestedItem
		if err := rows.Scan(&line.RequestedItemID, &line.RequestID, &line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan request line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request line rows: %w", err)
	}
	return lines, nil
}

// FindLogsByRequestID retrieves every checkout log of a request.
func (r *PgxRequestRepository) FindLogsByRequestID(ctx context.Context, requestID string) ([]domain.CheckoutLog, error) {
	query := `
		SELECT log_id, request_id, item_id, checked_out_by, checked_out_at, checked_in_by, checked_in_at, return_status
		FROM checkout_logs
		WHERE request_id = $1
		ORDER BY checked_out_at, log_id;
	`
	rows, err := r.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout logs for %s: %w", requestID, err)
	}
	defer rows.Close()

	logs := []domain.CheckoutLog{}
	for rows.Next() {
		log, err := scanCheckoutLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout log row: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkout log rows: %w", err)
	}
	return logs, nil
}

// ListRequests retrieves a filtered, token-paginated page of request headers,
// newest first.
func (r *PgxRequestRepository) ListRequests(ctx context.Context, filter portsrepo.ListRequestsFilter, limit int, nextToken *string) ([]domain.EquipmentRequest, *string, error) {
	args := []any{}
	query := `SELECT ` + requestSelectColumns + ` FROM equipment_requests WHERE 1=1`

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.RequestedBy != nil {
		args = append(args, *filter.RequestedBy)
		query += fmt.Sprintf(" AND requested_by = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		boundaryTime, boundaryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, boundaryTime, boundaryID)
		query += fmt.Sprintf(" AND (created_at, request_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1) // Fetch one extra row to know whether a next page exists
	query += fmt.Sprintf(" ORDER BY created_at DESC, request_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.EquipmentRequest{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating request rows: %w", err)
	}

	var newToken *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		newToken = &token
	}
	return requests, newToken, nil
}

// UpdateRequestStatusInTx flips the request status, optionally recording admin notes.
func (r *PgxRequestRepository) UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, status domain.RequestStatus, adminNotes *string) error {
	query := `
		UPDATE equipment_requests
		SET status = $2, admin_notes = COALESCE($3, admin_notes)
		WHERE request_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, requestID, status, adminNotes)
	if err != nil {
		return fmt.Errorf("failed to update status of request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveCheckoutLogsInTx bulk-inserts checkout log rows, one per physical unit.
func (r *PgxRequestRepository) SaveCheckoutLogsInTx(ctx context.Context, tx pgx.Tx, logs []domain.CheckoutLog) error {
	if len(logs) == 0 {
		return nil
	}

	rows := make([][]any, len(logs))
	for i, log := range logs {
		rows[i] = []any{log.LogID, log.RequestID, log.ItemID, log.CheckedOutBy, log.CheckedOutAt}
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"checkout_logs"},
		[]string{"log_id", "request_id", "item_id", "checked_out_by", "checked_out_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert checkout logs: %w", err)
	}
	return nil
}

// FindOpenLogsInTx retrieves the still-open logs of a request, locked so the
// closure batch cannot race a concurrent check-in.
func (r *PgxRequestRepository) FindOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.CheckoutLog, error) {
	query := `
		SELECT log_id, request_id, item_id, checked_out_by, checked_out_at, checked_in_by, checked_in_at, return_status
		FROM checkout_logs
		WHERE request_id = $1 AND checked_in_at IS NULL
		ORDER BY log_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open logs for %s: %w", requestID, err)
	}
	defer rows.Close()

	logs := []domain.CheckoutLog{}
	for rows.Next() {
		log, err := scanCheckoutLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open log row: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open log rows: %w", err)
	}
	return logs, nil
}

// CloseLogsInTx stamps the given logs with check-in actor, time and condition.
func (r *PgxRequestRepository) CloseLogsInTx(ctx context.Context, tx pgx.Tx, closures []portsrepo.LogClosure, checkedInBy string, checkedInAt time.Time) error {
	if len(closures) == 0 {
		return nil
	}

	query := `
		UPDATE checkout_logs
		SET checked_in_by = $2, checked_in_at = $3, return_status = $4
		WHERE log_id = $1 AND checked_in_at IS NULL;
	`
	batch := &pgx.Batch{}
	for _, closure := range closures {
		batch.Queue(query, closure.LogID, checkedInBy, checkedInAt, closure.ReturnStatus)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to close log %s: %w", closures[i].LogID, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: log %s is not open", apperrors.ErrValidation, closures[i].LogID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close log update batch: %w", err)
	}
	return batchErr
}

// CountOpenLogsInTx counts every remaining open log of a request.
func (r *PgxRequestRepository) CountOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM checkout_logs WHERE request_id = $1 AND checked_in_at IS NULL;`,
		requestID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open logs for %s: %w", requestID, err)
	}
	return count, nil
}

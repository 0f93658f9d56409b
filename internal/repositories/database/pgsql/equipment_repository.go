package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
)

type PgxEquipmentRepository struct {
	pool *pgxpool.Pool
}

// newPgxEquipmentRepository creates a new repository for equipment data.
func newPgxEquipmentRepository(pool *pgxpool.Pool) portsrepo.EquipmentRepositoryFacade {
	return &PgxEquipmentRepository{pool: pool}
}

var _ portsrepo.EquipmentRepositoryFacade = (*PgxEquipmentRepository)(nil)

// itemSelectColumns computes the committed and damaged counts inline, so every
// read sees quantities derived from the request and log tables at that moment.
// Committed = approved line quantities + units still out on active requests.
// Damaged = every DAMAGED/LOST log row, whatever its request's status.
const itemSelectColumns = `
	i.item_id, i.name, i.category_id, i.total_quantity,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by,
	(
		SELECT COALESCE(SUM(ri.quantity), 0)
		FROM requested_items ri
		JOIN equipment_requests er ON er.request_id = ri.request_id
		WHERE ri.item_id = i.item_id AND er.status = 'APPROVED'
	) + (
		SELECT COUNT(*)
		FROM checkout_logs cl
		JOIN equipment_requests er ON er.request_id = cl.request_id
		WHERE cl.item_id = i.item_id
		  AND cl.checked_in_at IS NULL
		  AND er.status IN ('CHECKED_OUT', 'PARTIAL_RETURN')
	) AS committed_quantity,
	(
		SELECT COUNT(*)
		FROM checkout_logs cl
		WHERE cl.item_id = i.item_id AND cl.return_status IN ('DAMAGED', 'LOST')
	) AS damaged_quantity`

// scanItem reads one item row produced by itemSelectColumns.
func scanItem(row pgx.Row) (domain.EquipmentItem, error) {
	var item domain.EquipmentItem
	var categoryID sql.NullString

	err := row.Scan(
		&item.ItemID,
		&item.Name,
		&categoryID,
		&item.TotalQuantity,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
		&item.CommittedQuantity,
		&item.DamagedQuantity,
	)
	if err != nil {
		return domain.EquipmentItem{}, err
	}

	if categoryID.Valid {
		item.CategoryID = categoryID.String
	}
	item.AvailableQuantity = item.TotalQuantity - item.CommittedQuantity - item.DamagedQuantity
	return item, nil
}

// SaveCategory inserts a new equipment category.
func (r *PgxEquipmentRepository) SaveCategory(ctx context.Context, category domain.EquipmentCategory) error {
	query := `
		INSERT INTO equipment_categories (category_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, category.Name)
		}
		return fmt.Errorf("failed to save category %s: %w", category.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxEquipmentRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.EquipmentCategory, error) {
	query := `
		SELECT category_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM equipment_categories
		WHERE category_id = $1;
	`
	var category domain.EquipmentCategory
	err := r.pool.QueryRow(ctx, query, categoryID).Scan(
		&category.CategoryID,
		&category.Name,
		&category.CreatedAt,
		&category.CreatedBy,
		&category.LastUpdatedAt,
		&category.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	return &category, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *PgxEquipmentRepository) ListCategories(ctx context.Context) ([]domain.EquipmentCategory, error) {
	query := `
		SELECT category_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM equipment_categories
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.EquipmentCategory{}
	for rows.Next() {
		var category domain.EquipmentCategory
		if err := rows.Scan(
			&category.CategoryID,
			&category.Name,
			&category.CreatedAt,
			&category.CreatedBy,
			&category.LastUpdatedAt,
			&category.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// SaveItem inserts a new equipment item.
func (r *PgxEquipmentRepository) SaveItem(ctx context.Context, item domain.EquipmentItem) error {
	query := `
		INSERT INTO equipment_items (item_id, name, category_id, total_quantity, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	var categoryID sql.NullString
	if item.CategoryID != "" {
		categoryID = sql.NullString{String: item.CategoryID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		item.ItemID,
		item.Name,
		categoryID,
		item.TotalQuantity,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: item with ID %s already exists", apperrors.ErrDuplicate, item.ItemID)
		}
		return fmt.Errorf("failed to save item %s: %w", item.ItemID, err)
	}
	return nil
}

// UpdateItem updates the mutable fields of an item.
func (r *PgxEquipmentRepository) UpdateItem(ctx context.Context, item domain.EquipmentItem) error {
	query := `
		UPDATE equipment_items
		SET name = $2, category_id = $3, total_quantity = $4, last_updated_at = $5, last_updated_by = $6
		WHERE item_id = $1;
	`
	var categoryID sql.NullString
	if item.CategoryID != "" {
		categoryID = sql.NullString{String: item.CategoryID, Valid: true}
	}

	cmdTag, err := r.pool.Exec(ctx, query,
		item.ItemID,
		item.Name,
		categoryID,
		item.TotalQuantity,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", item.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindItemByID retrieves an item with freshly derived quantities.
func (r *PgxEquipmentRepository) FindItemByID(ctx context.Context, itemID string) (*domain.EquipmentItem, error) {
	query := `SELECT ` + itemSelectColumns + `
		FROM equipment_items i
		WHERE i.item_id = $1;
	`
	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID %s: %w", itemID, err)
	}
	return &item, nil
}

// ListItems retrieves all items with derived quantities, optionally filtered by category.
func (r *PgxEquipmentRepository) ListItems(ctx context.Context, categoryID *string) ([]domain.EquipmentItem, error) {
	query := `SELECT ` + itemSelectColumns + `
		FROM equipment_items i
		WHERE ($1::text IS NULL OR i.category_id = $1)
		ORDER BY i.name;
	`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.EquipmentItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

// FindItemsForUpdate retrieves multiple items by IDs, locking the base rows
// FOR UPDATE. Quantities are derived inside the same transaction, so two
// concurrent stock checks on the same items serialize here. Must be called
// within a transaction.
func (r *PgxEquipmentRepository) FindItemsForUpdate(ctx context.Context, tx pgx.Tx, itemIDs []string) (map[string]domain.EquipmentItem, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.EquipmentItem{}, nil
	}

	query := `SELECT ` + itemSelectColumns + `
		FROM equipment_items i
		WHERE i.item_id = ANY($1)
		FOR UPDATE OF i;
	`
	rows, err := tx.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for update: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[string]domain.EquipmentItem)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked item row: %w", err)
		}
		itemsMap[item.ItemID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked item rows: %w", err)
	}

	// Missing IDs are left to the caller: a request line naming an unknown
	// item is a validation failure, not an infrastructure one.
	return itemsMap, nil
}

// ListDamagedLogs retrieves every log row holding a unit out of circulation.
func (r *PgxEquipmentRepository) ListDamagedLogs(ctx context.Context) ([]domain.CheckoutLog, error) {
	query := `
		SELECT log_id, request_id, item_id, checked_out_by, checked_out_at, checked_in_by, checked_in_at, return_status
		FROM checkout_logs
		WHERE return_status IN ('DAMAGED', 'LOST')
		ORDER BY checked_in_at DESC;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query damaged logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.CheckoutLog{}
	for rows.Next() {
		log, err := scanCheckoutLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan damaged log row: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating damaged log rows: %w", err)
	}
	return logs, nil
}

// FindLogByID retrieves a single checkout log.
func (r *PgxEquipmentRepository) FindLogByID(ctx context.Context, logID string) (*domain.CheckoutLog, error) {
	query := `
		SELECT log_id, request_id, item_id, checked_out_by, checked_out_at, checked_in_by, checked_in_at, return_status
		FROM checkout_logs
		WHERE log_id = $1;
	`
	log, err := scanCheckoutLog(r.pool.QueryRow(ctx, query, logID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find checkout log by ID %s: %w", logID, err)
	}
	return &log, nil
}

// DeleteLog removes a checkout log row. This is the repair action: the unit
// stops counting against its item's pool.
func (r *PgxEquipmentRepository) DeleteLog(ctx context.Context, logID string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM checkout_logs WHERE log_id = $1;`, logID)
	if err != nil {
		return fmt.Errorf("failed to delete checkout log %s: %w", logID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

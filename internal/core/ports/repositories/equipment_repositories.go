package repositories

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// EquipmentReader defines read operations for categories and items.
// Every item returned carries freshly aggregated committed/damaged/available
// quantities; there are no cached counters anywhere.
type EquipmentReader interface {
	// FindItemByID retrieves a single item with derived quantities.
	FindItemByID(ctx context.Context, itemID string) (*domain.EquipmentItem, error)

	// ListItems retrieves all items, optionally filtered by category, with derived quantities.
	ListItems(ctx context.Context, categoryID *string) ([]domain.EquipmentItem, error)

	// FindCategoryByID retrieves a single category.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.EquipmentCategory, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.EquipmentCategory, error)
}

// EquipmentWriter defines write operations for categories and items.
type EquipmentWriter interface {
	SaveCategory(ctx context.Context, category domain.EquipmentCategory) error
	SaveItem(ctx context.Context, item domain.EquipmentItem) error
	UpdateItem(ctx context.Context, item domain.EquipmentItem) error
}

// EquipmentTransactionSupport defines operations used inside workflow transactions.
type EquipmentTransactionSupport interface {
	// FindItemsForUpdate locks the given item rows FOR UPDATE and returns them
	// with derived quantities computed inside the same transaction. Concurrent
	// check-and-reserve sequences serialize on these row locks.
	FindItemsForUpdate(ctx context.Context, tx pgx.Tx, itemIDs []string) (map[string]domain.EquipmentItem, error)
}

// RepairSupport defines the repair-center operations over checkout logs.
type RepairSupport interface {
	// ListDamagedLogs retrieves all logs marked DAMAGED or LOST.
	ListDamagedLogs(ctx context.Context) ([]domain.CheckoutLog, error)

	// FindLogByID retrieves a single checkout log.
	FindLogByID(ctx context.Context, logID string) (*domain.CheckoutLog, error)

	// DeleteLog removes a checkout log row, returning its unit to the pool.
	DeleteLog(ctx context.Context, logID string) error
}

// EquipmentRepositoryFacade combines all equipment-related repository interfaces.
type EquipmentRepositoryFacade interface {
	EquipmentReader
	EquipmentWriter
	EquipmentTransactionSupport
	RepairSupport
}

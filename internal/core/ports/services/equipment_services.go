package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
)

// EquipmentSvcFacade exposes the inventory ledger: category/item management,
// derived availability reads and the repair center.
type EquipmentSvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.EquipmentCategory, error)
	ListCategories(ctx context.Context) ([]domain.EquipmentCategory, error)

	CreateItem(ctx context.Context, req dto.CreateItemRequest, creatorUserID string) (*domain.EquipmentItem, error)
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, updaterUserID string) (*domain.EquipmentItem, error)
	GetItem(ctx context.Context, itemID string) (*domain.EquipmentItem, error)
	ListItems(ctx context.Context, categoryID *string) ([]domain.EquipmentItem, error)

	// ListDamagedLogs lists the units currently out of circulation (DAMAGED/LOST).
	ListDamagedLogs(ctx context.Context) ([]domain.CheckoutLog, error)

	// RepairLog deletes a DAMAGED/LOST log row, returning the unit to the pool.
	RepairLog(ctx context.Context, logID string, actorUserID string) error
}

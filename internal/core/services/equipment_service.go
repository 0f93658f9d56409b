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

// equipmentService provides inventory ledger operations: category/item
// management, availability reads and the repair center.
type equipmentService struct {
	equipmentRepo portsrepo.EquipmentRepositoryFacade
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(equipmentRepo portsrepo.EquipmentRepositoryFacade) portssvc.EquipmentSvcFacade {
	return &equipmentService{equipmentRepo: equipmentRepo}
}

var _ portssvc.EquipmentSvcFacade = (*equipmentService)(nil)

// CreateCategory creates a new equipment category.
func (s *equipmentService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.EquipmentCategory, error) {
	now := time.Now().UTC()
	category := domain.EquipmentCategory{
		CategoryID: uuid.NewString(),
		Name:       req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.equipmentRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return &category, nil
}

// ListCategories returns all categories.
func (s *equipmentService) ListCategories(ctx context.Context) ([]domain.EquipmentCategory, error) {
	return s.equipmentRepo.ListCategories(ctx)
}

// CreateItem adds a new equipment item to the master list.
func (s *equipmentService) CreateItem(ctx context.Context, req dto.CreateItemRequest, creatorUserID string) (*domain.EquipmentItem, error) {
	if req.CategoryID != "" {
		if _, err := s.equipmentRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, req.CategoryID)
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
	}

	now := time.Now().UTC()
	item := domain.EquipmentItem{
		ItemID:        uuid.NewString(),
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		TotalQuantity: req.TotalQuantity,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.equipmentRepo.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	// Nothing is committed or damaged yet, the whole stock is available.
	item.AvailableQuantity = item.TotalQuantity
	return &item, nil
}

// UpdateItem changes the mutable fields of an item.
func (s *equipmentService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, updaterUserID string) (*domain.EquipmentItem, error) {
	item, err := s.equipmentRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		item.Name = *req.Name
		updated = true
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
		updated = true
	}
	if req.TotalQuantity != nil {
		if *req.TotalQuantity < item.CommittedQuantity+item.DamagedQuantity {
			return nil, fmt.Errorf("%w: total quantity %d is below the %d units currently committed or damaged",
				apperrors.ErrValidation, *req.TotalQuantity, item.CommittedQuantity+item.DamagedQuantity)
		}
		item.TotalQuantity = *req.TotalQuantity
		updated = true
	}
	if !updated {
		return item, nil
	}

	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = updaterUserID

	if err := s.equipmentRepo.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	item.AvailableQuantity = item.TotalQuantity - item.CommittedQuantity - item.DamagedQuantity
	return item, nil
}

// GetItem returns one item with freshly computed quantities.
func (s *equipmentService) GetItem(ctx context.Context, itemID string) (*domain.EquipmentItem, error) {
	return s.equipmentRepo.FindItemByID(ctx, itemID)
}

// ListItems returns all items with freshly computed quantities.
func (s *equipmentService) ListItems(ctx context.Context, categoryID *string) ([]domain.EquipmentItem, error) {
	return s.equipmentRepo.ListItems(ctx, categoryID)
}

// ListDamagedLogs lists the units currently out of circulation.
func (s *equipmentService) ListDamagedLogs(ctx context.Context) ([]domain.CheckoutLog, error) {
	return s.equipmentRepo.ListDamagedLogs(ctx)
}

// RepairLog deletes a DAMAGED/LOST log row. The deletion is the repair: the
// unit stops counting against the pool the moment the row is gone.
func (s *equipmentService) RepairLog(ctx context.Context, logID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	log, err := s.equipmentRepo.FindLogByID(ctx, logID)
	if err != nil {
		return err
	}

	if log.ReturnStatus != domain.ReturnDamaged && log.ReturnStatus != domain.ReturnLost {
		return fmt.Errorf("%w: only DAMAGED or LOST units can be repaired", apperrors.ErrValidation)
	}

	if err := s.equipmentRepo.DeleteLog(ctx, logID); err != nil {
		return fmt.Errorf("failed to delete checkout log: %w", err)
	}

	logger.Info("Unit repaired and returned to pool",
		slog.String("log_id", logID),
		slog.String("item_id", log.ItemID),
		slog.String("actor", actorUserID))
	return nil
}

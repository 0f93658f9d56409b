package dto

import (
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
)

// CreateCategoryRequest defines the input for creating an equipment category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
}

// CreateItemRequest defines the input for adding an equipment item.
type CreateItemRequest struct {
	Name          string `json:"name" binding:"required,max=150"`
	CategoryID    string `json:"categoryID"`
	TotalQuantity int64  `json:"totalQuantity" binding:"required,min=1"`
}

// UpdateItemRequest defines the fields allowed to change on an item.
// Pointers distinguish omitted fields from zero values.
type UpdateItemRequest struct {
	Name          *string `json:"name"`
	CategoryID    *string `json:"categoryID"`
	TotalQuantity *int64  `json:"totalQuantity" binding:"omitempty,min=1"`
}

// ItemResponse is the API representation of an equipment item. The three
// quantity fields beyond totalQuantity are derived, never stored.
type ItemResponse struct {
	ItemID            string `json:"itemID"`
	Name              string `json:"name"`
	CategoryID        string `json:"categoryID,omitempty"`
	TotalQuantity     int64  `json:"totalQuantity"`
	CommittedQuantity int64  `json:"committedQuantity"`
	DamagedQuantity   int64  `json:"damagedQuantity"`
	AvailableQuantity int64  `json:"availableQuantity"`
}

// CheckoutLogResponse is the API representation of one unit in custody.
type CheckoutLogResponse struct {
	LogID        string     `json:"logID"`
	RequestID    string     `json:"requestID"`
	ItemID       string     `json:"itemID"`
	CheckedOutBy string     `json:"checkedOutBy"`
	CheckedOutAt time.Time  `json:"checkedOutAt"`
	CheckedInBy  *string    `json:"checkedInBy,omitempty"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	ReturnStatus string     `json:"returnStatus,omitempty"`
}

// ToCategoryResponse converts a domain category to its API representation.
func ToCategoryResponse(c *domain.EquipmentCategory) CategoryResponse {
	return CategoryResponse{CategoryID: c.CategoryID, Name: c.Name}
}

// ToItemResponse converts a domain item to its API representation.
func ToItemResponse(i *domain.EquipmentItem) ItemResponse {
	return ItemResponse{
		ItemID:            i.ItemID,
		Name:              i.Name,
		CategoryID:        i.CategoryID,
		TotalQuantity:     i.TotalQuantity,
		CommittedQuantity: i.CommittedQuantity,
		DamagedQuantity:   i.DamagedQuantity,
		AvailableQuantity: i.AvailableQuantity,
	}
}

// ToItemResponses converts a slice of domain items.
func ToItemResponses(items []domain.EquipmentItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// ToCheckoutLogResponse converts a domain checkout log to its API representation.
func ToCheckoutLogResponse(l *domain.CheckoutLog) CheckoutLogResponse {
	return CheckoutLogResponse{
		LogID:        l.LogID,
		RequestID:    l.RequestID,
		ItemID:       l.ItemID,
		CheckedOutBy: l.CheckedOutBy,
		CheckedOutAt: l.CheckedOutAt,
		CheckedInBy:  l.CheckedInBy,
		CheckedInAt:  l.CheckedInAt,
		ReturnStatus: string(l.ReturnStatus),
	}
}

// ToCheckoutLogResponses converts a slice of domain checkout logs.
func ToCheckoutLogResponses(logs []domain.CheckoutLog) []CheckoutLogResponse {
	out := make([]CheckoutLogResponse, len(logs))
	for i := range logs {
		out[i] = ToCheckoutLogResponse(&logs[i])
	}
	return out
}

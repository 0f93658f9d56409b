package dto

import (
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
)

// RequestLine is one {item, quantity} entry on a new request.
type RequestLine struct {
	ItemID   string `json:"itemID" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

// CreateRequestRequest defines the input for submitting an equipment request.
type CreateRequestRequest struct {
	ProjectID string        `json:"projectID" binding:"required"`
	Items     []RequestLine `json:"items" binding:"required,min=1,dive"`
}

// RejectRequestRequest carries the free-text rejection reason.
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// CheckInLine names one open log row and the condition it came back in.
type CheckInLine struct {
	LogID  string `json:"logID" binding:"required"`
	Status string `json:"status" binding:"required,oneof=GOOD DAMAGED LOST"`
}

// CheckInRequest is the batch payload for returning units.
type CheckInRequest struct {
	Items []CheckInLine `json:"items" binding:"required,min=1,dive"`
}

// RequestedItemResponse is the API representation of a request line.
type RequestedItemResponse struct {
	RequestedItemID string `json:"requestedItemID"`
	ItemID          string `json:"itemID"`
	Quantity        int64  `json:"quantity"`
}

// RequestResponse is the API representation of an equipment request.
type RequestResponse struct {
	RequestID   string                  `json:"requestID"`
	ProjectID   string                  `json:"projectID"`
	RequestedBy string                  `json:"requestedBy"`
	Status      string                  `json:"status"`
	AdminNotes  string                  `json:"adminNotes,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	Items       []RequestedItemResponse `json:"items,omitempty"`
	Logs        []CheckoutLogResponse   `json:"logs,omitempty"`
}

// ListRequestsParams defines query parameters for listing requests.
type ListRequestsParams struct {
	Status    string  `form:"status"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListRequestsResponse wraps a page of requests with the continuation token.
type ListRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToRequestResponse converts a domain request to its API representation.
func ToRequestResponse(r *domain.EquipmentRequest) RequestResponse {
	resp := RequestResponse{
		RequestID:   r.RequestID,
		ProjectID:   r.ProjectID,
		RequestedBy: r.RequestedBy,
		Status:      string(r.Status),
		AdminNotes:  r.AdminNotes,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Items) > 0 {
		resp.Items = make([]RequestedItemResponse, len(r.Items))
		for i, line := range r.Items {
			resp.Items[i] = RequestedItemResponse{
				RequestedItemID: line.RequestedItemID,
				ItemID:          line.ItemID,
				Quantity:        line.Quantity,
			}
		}
	}
	if len(r.Logs) > 0 {
		resp.Logs = ToCheckoutLogResponses(r.Logs)
	}
	return resp
}

// ToRequestResponses converts a slice of domain requests.
func ToRequestResponses(requests []domain.EquipmentRequest) []RequestResponse {
	out := make([]RequestResponse, len(requests))
	for i := range requests {
		out[i] = ToRequestResponse(&requests[i])
	}
	return out
}

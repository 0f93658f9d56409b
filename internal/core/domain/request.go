package domain

import "time"

// RequestStatus is the state of an equipment request.
type RequestStatus string

const (
	StatusPending       RequestStatus = "PENDING"
	StatusApproved      RequestStatus = "APPROVED"
	StatusRejected      RequestStatus = "REJECTED"
	StatusCheckedOut    RequestStatus = "CHECKED_OUT"
	StatusPartialReturn RequestStatus = "PARTIAL_RETURN"
	StatusReturned      RequestStatus = "RETURNED"
)

// RequestAction is an operation attempted against a request.
type RequestAction string

const (
	ActionApprove  RequestAction = "APPROVE"
	ActionReject   RequestAction = "REJECT"
	ActionCheckout RequestAction = "CHECKOUT"
	ActionCheckIn  RequestAction = "CHECKIN"
)

// transitions is the closed transition table: current status x action -> next status.
// REJECTED and RETURNED are terminal. CHECKIN maps to PARTIAL_RETURN here; the
// workflow service promotes the result to RETURNED when no open logs remain.
var transitions = map[RequestStatus]map[RequestAction]RequestStatus{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionReject:   StatusRejected,
		ActionCheckout: StatusCheckedOut,
	},
	StatusCheckedOut: {
		ActionCheckIn: StatusPartialReturn,
	},
	StatusPartialReturn: {
		ActionCheckIn: StatusPartialReturn,
	},
}

// NextStatus resolves the transition table for the given status and action.
// The second return value is false when the transition is illegal.
func NextStatus(current RequestStatus, action RequestAction) (RequestStatus, bool) {
	actions, ok := transitions[current]
	if !ok {
		return "", false
	}
	next, ok := actions[action]
	return next, ok
}

// EquipmentRequest is the header of a request, linking a project and a requester.
type EquipmentRequest struct {
	RequestID   string        `json:"requestID"`
	ProjectID   string        `json:"projectID"`
	RequestedBy string        `json:"requestedBy"` // UserID reference
	Status      RequestStatus `json:"status"`
	AdminNotes  string        `json:"adminNotes"` // Free text, set on rejection
	CreatedAt   time.Time     `json:"createdAt"`

	// Populated on detail reads.
	Items []RequestedItem `json:"items,omitempty"`
	Logs  []CheckoutLog   `json:"logs,omitempty"`
}

// RequestedItem is one line on a request: quantity of a single equipment item.
// The (request, item) pair is unique; the line is an immutable record of intent.
type RequestedItem struct {
	RequestedItemID string `json:"requestedItemID"`
	RequestID       string `json:"requestID"`
	ItemID          string `json:"itemID"`
	Quantity        int64  `json:"quantity"`
}

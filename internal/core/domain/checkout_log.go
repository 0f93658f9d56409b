package domain

import "time"

// ReturnStatus records the condition of a unit when it came back.
type ReturnStatus string

const (
	ReturnGood    ReturnStatus = "GOOD"
	ReturnDamaged ReturnStatus = "DAMAGED"
	ReturnLost    ReturnStatus = "LOST"
)

// ValidReturnStatus reports whether s is one of the closed set of return states.
func ValidReturnStatus(s ReturnStatus) bool {
	switch s {
	case ReturnGood, ReturnDamaged, ReturnLost:
		return true
	}
	return false
}

// CheckoutLog is one row per physical unit in custody. A request line for
// quantity N expands into N independent log rows at checkout time, so each
// unit carries its own out/in timeline and return condition. Deleting a
// DAMAGED/LOST row is the repair action: the unit rejoins the pool.
type CheckoutLog struct {
	LogID        string       `json:"logID"`
	RequestID    string       `json:"requestID"`
	ItemID       string       `json:"itemID"`
	CheckedOutBy string       `json:"checkedOutBy"`
	CheckedOutAt time.Time    `json:"checkedOutAt"`
	CheckedInBy  *string      `json:"checkedInBy,omitempty"` // Nil until the unit is returned
	CheckedInAt  *time.Time   `json:"checkedInAt,omitempty"`
	ReturnStatus ReturnStatus `json:"returnStatus,omitempty"` // Empty until the unit is returned
}

// Open reports whether the unit is still out.
func (l CheckoutLog) Open() bool {
	return l.CheckedInAt == nil
}

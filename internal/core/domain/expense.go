package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend against an account, optionally attributed to a
// project or a staff member. Creating an expense always produces exactly one
// paired debit Transaction against its account.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	AccountID   string          `json:"accountID"`
	ProjectID   *string         `json:"projectID,omitempty"`
	StaffID     *string         `json:"staffID,omitempty"`
	ReceiptURL  string          `json:"receiptURL,omitempty"` // External storage reference
	AddedBy     string          `json:"addedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger entry. At least one of FromAccountID
// and ToAccountID is set: both set models a transfer, only To an external
// deposit, only From an external withdrawal. Entries are never updated or
// deleted; the full financial history is reconstructable from the log.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	Description   string          `json:"description"`
	Timestamp     time.Time       `json:"timestamp"`
	FromAccountID *string         `json:"fromAccountID,omitempty"`
	ToAccountID   *string         `json:"toAccountID,omitempty"`
	ProjectID     *string         `json:"projectID,omitempty"`
	ExpenseID     *string         `json:"expenseID,omitempty"` // 1:1 with the paired expense
	CreatedBy     string          `json:"createdBy"`
}

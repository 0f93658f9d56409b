package domain

import "github.com/shopspring/decimal"

// Account is an operating account, e.g. "Main Account", "Logistics", "Sound Dept".
//
// Balance is never stored. It is the aggregate
// sum(credits to the account) - sum(debits from the account) over the
// transaction log, computed by the repository at read time.
type Account struct {
	AccountID string `json:"accountID"`
	Name      string `json:"name"` // Unique
	AuditFields

	Balance decimal.Decimal `json:"balance"` // Derived, populated on reads
}

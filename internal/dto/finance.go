package dto

import (
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the input for creating an operating account.
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AccountResponse is the API representation of an account; balance is derived.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// CreateExpenseRequest defines the input for recording an expense.
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate time.Time       `json:"expenseDate" binding:"required"`
	AccountID   string          `json:"accountID" binding:"required"`
	ProjectID   *string         `json:"projectID"`
	StaffID     *string         `json:"staffID"`
	ReceiptURL  string          `json:"receiptURL"`
}

// ExpenseResponse is the API representation of an expense.
type ExpenseResponse struct {
	ExpenseID   string          `json:"expenseID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	AccountID   string          `json:"accountID"`
	ProjectID   *string         `json:"projectID,omitempty"`
	StaffID     *string         `json:"staffID,omitempty"`
	ReceiptURL  string          `json:"receiptURL,omitempty"`
	AddedBy     string          `json:"addedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateTransactionRequest defines the input for a manual ledger entry.
// At least one of fromAccountID/toAccountID must be set; the service enforces it.
type CreateTransactionRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	FromAccountID *string         `json:"fromAccountID"`
	ToAccountID   *string         `json:"toAccountID"`
	ProjectID     *string         `json:"projectID"`
}

// TransactionResponse is the API representation of a ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Timestamp     time.Time       `json:"timestamp"`
	FromAccountID *string         `json:"fromAccountID,omitempty"`
	ToAccountID   *string         `json:"toAccountID,omitempty"`
	ProjectID     *string         `json:"projectID,omitempty"`
	ExpenseID     *string         `json:"expenseID,omitempty"`
}

// ReceivePaymentRequest names the project whose payment arrived.
type ReceivePaymentRequest struct {
	ProjectID string `json:"projectID" binding:"required"`
}

// PaymentSplitResponse reports the fan-out produced by a received payment.
type PaymentSplitResponse struct {
	ProjectID    string                `json:"projectID"`
	TotalCharges decimal.Decimal       `json:"totalCharges"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ListTransactionsParams defines query parameters for listing ledger entries.
type ListTransactionsParams struct {
	AccountID *string `form:"accountID"`
	ProjectID *string `form:"projectID"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	ProjectID *string `form:"projectID"`
	StaffID   *string `form:"staffID"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{AccountID: a.AccountID, Name: a.Name, Balance: a.Balance}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// ToTransactionResponse converts a domain transaction to its API representation.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Amount:        t.Amount,
		Description:   t.Description,
		Timestamp:     t.Timestamp,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		ProjectID:     t.ProjectID,
		ExpenseID:     t.ExpenseID,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ToExpenseResponse converts a domain expense to its API representation.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		AccountID:   e.AccountID,
		ProjectID:   e.ProjectID,
		StaffID:     e.StaffID,
		ReceiptURL:  e.ReceiptURL,
		AddedBy:     e.AddedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// ToExpenseResponses converts a slice of domain expenses.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return out
}

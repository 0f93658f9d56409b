package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/shopspring/decimal"
)

// FinanceSvcFacade exposes the financial ledger: accounts with derived
// balances, the append-only transaction log, expense recording and the
// project payment split.
type FinanceSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// CreateExpense records an expense and its paired debit transaction atomically.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actorUserID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)

	// CreateTransaction appends a manual ledger entry (transfer, deposit or withdrawal).
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorUserID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ReceivePayment runs the one-shot fixed-percentage fan-out of a
	// project's charges across the operating accounts.
	ReceivePayment(ctx context.Context, projectID string, actorUserID string) (*dto.PaymentSplitResponse, error)
}

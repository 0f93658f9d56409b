package repositories

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListTransactionsFilter narrows transaction listings.
type ListTransactionsFilter struct {
	AccountID *string // Matches either side of the entry
	ProjectID *string
}

// ListExpensesFilter narrows expense listings.
type ListExpensesFilter struct {
	ProjectID *string
	StaffID   *string
}

// AccountReader defines read operations for accounts. Balances are always
// derived by aggregation over the transaction log at read time.
type AccountReader interface {
	// FindAccountByID retrieves an account with its derived balance.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves an account by name, case-insensitively.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListAccounts retrieves all accounts with derived balances, ordered by name.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetBalance computes sum(credits) - sum(debits) for one account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountWriter defines write operations for accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
}

// LedgerReader defines read operations over the append-only transaction log.
type LedgerReader interface {
	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of entries,
	// newest first.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines append operations for the transaction log. There is no
// update or delete: the log is the source of truth for every balance.
type LedgerWriter interface {
	// SaveTransaction appends a single entry.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactionsInTx appends a batch of entries inside an open transaction.
	SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) error

	// FindAccountsByNamesInTx retrieves accounts by name (case-insensitive)
	// inside an open transaction, keyed by lowercased name.
	FindAccountsByNamesInTx(ctx context.Context, tx pgx.Tx, names []string) (map[string]domain.Account, error)
}

// ExpenseReader defines read operations for expenses.
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter ListExpensesFilter, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expenses.
type ExpenseWriter interface {
	// SaveExpenseInTx inserts an expense row; the service pairs it with its
	// debit transaction in the same database transaction.
	SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error
}

// FinanceRepositoryFacade combines all finance-related repository interfaces.
type FinanceRepositoryFacade interface {
	AccountReader
	AccountWriter
	LedgerReader
	LedgerWriter
	ExpenseReader
	ExpenseWriter
}

// FinanceRepositoryWithTx extends FinanceRepositoryFacade with transaction capabilities.
type FinanceRepositoryWithTx interface {
	FinanceRepositoryFacade
	TransactionManager
}

package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	"github.com/fikiricreative/fikiri_ops_app/internal/utils/pagination"
)

type PgxFinanceRepository struct {
	BaseRepository
}

// newPgxFinanceRepository creates a new repository for accounts, transactions
// and expenses.
func newPgxFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepositoryWithTx {
	return &PgxFinanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FinanceRepositoryWithTx = (*PgxFinanceRepository)(nil)

// accountSelectColumns derives the balance inline: sum of credits minus sum of
// debits over the whole transaction log. Balances are never stored.
const accountSelectColumns = `
	a.account_id, a.name, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
	COALESCE((
		SELECT SUM(CASE WHEN t.to_account_id = a.account_id THEN t.amount ELSE -t.amount END)
		FROM transactions t
		WHERE t.to_account_id = a.account_id OR t.from_account_id = a.account_id
	), 0) AS balance`

// scanAccount reads one account row produced by accountSelectColumns.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.Name,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
		&account.Balance,
	)
	return account, err
}

// SaveAccount inserts a new account.
func (r *PgxFinanceRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on lower(name)
			return fmt.Errorf("%w: account named %q already exists", apperrors.ErrDuplicate, account.Name)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account with its derived balance.
func (r *PgxFinanceRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + ` FROM accounts a WHERE a.account_id = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountByName retrieves an account by name, case-insensitively.
func (r *PgxFinanceRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + ` FROM accounts a WHERE lower(a.name) = lower($1);`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by name %q: %w", name, err)
	}
	return &account, nil
}

// ListAccounts retrieves all accounts with derived balances, ordered by name.
func (r *PgxFinanceRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + ` FROM accounts a ORDER BY a.name;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// GetBalance computes sum(credits) - sum(debits) for one account.
func (r *PgxFinanceRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN to_account_id = $1 THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE to_account_id = $1 OR from_account_id = $1;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// FindAccountsByNamesInTx retrieves accounts by name (case-insensitive) inside
// an open transaction, keyed by lowercased name. Missing names are simply
// absent from the map.
func (r *PgxFinanceRepository) FindAccountsByNamesInTx(ctx context.Context, tx pgx.Tx, names []string) (map[string]domain.Account, error) {
	if len(names) == 0 {
		return map[string]domain.Account{}, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	query := `SELECT ` + accountSelectColumns + ` FROM accounts a WHERE lower(a.name) = ANY($1);`
	rows, err := tx.Query(ctx, query, lowered)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by names: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during name lookup: %w", err)
		}
		accountsMap[strings.ToLower(account.Name)] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during name lookup: %w", err)
	}
	return accountsMap, nil
}

const transactionSelectColumns = `transaction_id, amount, description, "timestamp", from_account_id, to_account_id, project_id, expense_id, created_by`

// scanTransaction reads one ledger entry row.
func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var fromAccountID, toAccountID, projectID, expenseID sql.NullString

	err := row.Scan(
		&txn.TransactionID,
		&txn.Amount,
		&txn.Description,
		&txn.Timestamp,
		&fromAccountID,
		&toAccountID,
		&projectID,
		&expenseID,
		&txn.CreatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	if fromAccountID.Valid {
		txn.FromAccountID = &fromAccountID.String
	}
	if toAccountID.Valid {
		txn.ToAccountID = &toAccountID.String
	}
	if projectID.Valid {
		txn.ProjectID = &projectID.String
	}
	if expenseID.Valid {
		txn.ExpenseID = &expenseID.String
	}
	return txn, nil
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, amount, description, "timestamp", from_account_id, to_account_id, project_id, expense_id, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// SaveTransaction appends a single ledger entry.
func (r *PgxFinanceRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	_, err := r.Pool.Exec(ctx, insertTransactionQuery,
		txn.TransactionID,
		txn.Amount,
		txn.Description,
		txn.Timestamp,
		txn.FromAccountID,
		txn.ToAccountID,
		txn.ProjectID,
		txn.ExpenseID,
		txn.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// SaveTransactionsInTx appends a batch of ledger entries inside an open
// transaction. Used by the expense pairing and the payment split.
func (r *PgxFinanceRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery,
			txn.TransactionID,
			txn.Amount,
			txn.Description,
			txn.Timestamp,
			txn.FromAccountID,
			txn.ToAccountID,
			txn.ProjectID,
			txn.ExpenseID,
			txn.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to save transaction %s: %w", txns[i].TransactionID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close transaction batch: %w", err)
	}
	return batchErr
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxFinanceRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionSelectColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactions retrieves a filtered, token-paginated page of entries, newest first.
func (r *PgxFinanceRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{}
	query := `SELECT ` + transactionSelectColumns + ` FROM transactions WHERE 1=1`

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND (from_account_id = $%d OR to_account_id = $%d)", len(args), len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		boundaryTime, boundaryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, boundaryTime, boundaryID)
		query += fmt.Sprintf(` AND ("timestamp", transaction_id) < ($%d, $%d)`, len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY "timestamp" DESC, transaction_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Timestamp, last.TransactionID)
		newToken = &token
	}
	return txns, newToken, nil
}

const expenseSelectColumns = `expense_id, description, amount, expense_date, account_id, project_id, staff_id, receipt_url, added_by, created_at`

// scanExpense reads one expense row.
func scanExpense(row pgx.Row) (domain.Expense, error) {
	var expense domain.Expense
	var projectID, staffID, receiptURL sql.NullString

	err := row.Scan(
		&expense.ExpenseID,
		&expense.Description,
		&expense.Amount,
		&expense.ExpenseDate,
		&expense.AccountID,
		&projectID,
		&staffID,
		&receiptURL,
		&expense.AddedBy,
		&expense.CreatedAt,
	)
	if err != nil {
		return domain.Expense{}, err
	}

	if projectID.Valid {
		expense.ProjectID = &projectID.String
	}
	if staffID.Valid {
		expense.StaffID = &staffID.String
	}
	if receiptURL.Valid {
		expense.ReceiptURL = receiptURL.String
	}
	return expense, nil
}

// SaveExpenseInTx inserts an expense row inside an open transaction.
func (r *PgxFinanceRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (expense_id, description, amount, expense_date, account_id, project_id, staff_id, receipt_url, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var receiptURL sql.NullString
	if expense.ReceiptURL != "" {
		receiptURL = sql.NullString{String: expense.ReceiptURL, Valid: true}
	}

	_, err := tx.Exec(ctx, query,
		expense.ExpenseID,
		expense.Description,
		expense.Amount,
		expense.ExpenseDate,
		expense.AccountID,
		expense.ProjectID,
		expense.StaffID,
		receiptURL,
		expense.AddedBy,
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

// FindExpenseByID retrieves a single expense.
func (r *PgxFinanceRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseSelectColumns + ` FROM expenses WHERE expense_id = $1;`
	expense, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	return &expense, nil
}

// ListExpenses retrieves a filtered, token-paginated page of expenses, newest first.
func (r *PgxFinanceRepository) ListExpenses(ctx context.Context, filter portsrepo.ListExpensesFilter, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := []any{}
	query := `SELECT ` + expenseSelectColumns + ` FROM expenses WHERE 1=1`

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		query += fmt.Sprintf(" AND staff_id = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		boundaryTime, boundaryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, boundaryTime, boundaryID)
		query += fmt.Sprintf(" AND (created_at, expense_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, expense_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	var newToken *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
		newToken = &token
	}
	return expenses, newToken, nil
}

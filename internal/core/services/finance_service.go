package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// Well-known operating accounts the payment split routes through. The split
// fails fast when any of them is missing.
const (
	MainAccountName      = "Main Account"
	LogisticsAccountName = "Logistics"
	AdminAccountName     = "Admin"
)

// Fixed payment split percentages. The 40% remainder is never moved: it stays
// on the main account because nothing debits it.
var (
	logisticsShare = decimal.RequireFromString("0.10")
	adminShare     = decimal.RequireFromString("0.15")
	deptPoolShare  = decimal.RequireFromString("0.35")
)

// financeService implements the financial ledger: accounts with derived
// balances, the append-only transaction log, expenses and the payment split.
type financeService struct {
	financeRepo portsrepo.FinanceRepositoryWithTx
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(financeRepo portsrepo.FinanceRepositoryWithTx, projectRepo portsrepo.ProjectRepositoryFacade) portssvc.FinanceSvcFacade {
	return &financeService{financeRepo: financeRepo, projectRepo: projectRepo}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

// CreateAccount creates a new operating account with a zero-entry ledger.
func (s *financeService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name cannot be blank", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.financeRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	account.Balance = decimal.Zero
	return &account, nil
}

// GetAccount returns one account with its derived balance.
func (s *financeService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.financeRepo.FindAccountByID(ctx, accountID)
}

// ListAccounts returns all accounts with derived balances.
func (s *financeService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.financeRepo.ListAccounts(ctx)
}

// GetBalance computes sum(credits) - sum(debits) for one account.
func (s *financeService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.financeRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.financeRepo.GetBalance(ctx, accountID)
}

// CreateExpense records an expense and its paired debit transaction in one
// database transaction. An expense with no ledger entry, or the reverse,
// cannot exist.
func (s *financeService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actorUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.financeRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		AccountID:   req.AccountID,
		ProjectID:   req.ProjectID,
		StaffID:     req.StaffID,
		ReceiptURL:  req.ReceiptURL,
		AddedBy:     actorUserID,
		CreatedAt:   now,
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		Description:   fmt.Sprintf("Expense: %s", req.Description),
		Timestamp:     now,
		FromAccountID: &expense.AccountID,
		ProjectID:     req.ProjectID,
		ExpenseID:     &expense.ExpenseID,
		CreatedBy:     actorUserID,
	}

	tx, err := s.financeRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.financeRepo.Rollback(ctx, tx) //nolint:errcheck

	if err := s.financeRepo.SaveExpenseInTx(ctx, tx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	if err := s.financeRepo.SaveTransactionsInTx(ctx, tx, []domain.Transaction{txn}); err != nil {
		return nil, fmt.Errorf("failed to save expense transaction: %w", err)
	}
	if err := s.financeRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("account_id", expense.AccountID),
		slog.String("amount", expense.Amount.String()))
	return &expense, nil
}

// ListExpenses returns a filtered, token-paginated page of expenses.
func (s *financeService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	expenses, nextToken, err := s.financeRepo.ListExpenses(ctx, portsrepo.ListExpensesFilter{
		ProjectID: params.ProjectID,
		StaffID:   params.StaffID,
	}, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &dto.ListExpensesResponse{
		Expenses:  dto.ToExpenseResponses(expenses),
		NextToken: nextToken,
	}, nil
}

// CreateTransaction appends a manual ledger entry. At least one side must name
// an account; both sides may (a transfer).
func (s *financeService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorUserID string) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if req.FromAccountID == nil && req.ToAccountID == nil {
		return nil, fmt.Errorf("%w: transaction must reference at least one account", apperrors.ErrValidation)
	}
	if req.FromAccountID != nil {
		if _, err := s.financeRepo.FindAccountByID(ctx, *req.FromAccountID); err != nil {
			return nil, err
		}
	}
	if req.ToAccountID != nil {
		if _, err := s.financeRepo.FindAccountByID(ctx, *req.ToAccountID); err != nil {
			return nil, err
		}
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		Description:   req.Description,
		Timestamp:     time.Now().UTC(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		ProjectID:     req.ProjectID,
		CreatedBy:     actorUserID,
	}

	if err := s.financeRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &txn, nil
}

// ListTransactions returns a filtered, token-paginated page of ledger entries.
func (s *financeService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txns, nextToken, err := s.financeRepo.ListTransactions(ctx, portsrepo.ListTransactionsFilter{
		AccountID: params.AccountID,
		ProjectID: params.ProjectID,
	}, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ReceivePayment runs the one-shot payment split for a project's charges:
// credit the full amount to the main account, then move 10% to Logistics, 15%
// to Admin, and 35% split evenly across the distinct department accounts of
// the project's services. The project row is locked and the is_paid guard
// checked inside the same transaction, so a payment can be received exactly
// once.
func (s *financeService) ReceivePayment(ctx context.Context, projectID string, actorUserID string) (*dto.PaymentSplitResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.financeRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.financeRepo.Rollback(ctx, tx) //nolint:errcheck

	project, err := s.projectRepo.FindProjectByIDForUpdate(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsPaid {
		return nil, fmt.Errorf("%w: project %s has already been paid", apperrors.ErrConflict, projectID)
	}
	if !project.Charges.IsPositive() {
		return nil, fmt.Errorf("%w: project %s has no positive charges to split", apperrors.ErrValidation, projectID)
	}

	accounts, err := s.financeRepo.FindAccountsByNamesInTx(ctx, tx,
		[]string{MainAccountName, LogisticsAccountName, AdminAccountName})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve split accounts: %w", err)
	}
	main, ok := accounts[strings.ToLower(MainAccountName)]
	if !ok {
		return nil, fmt.Errorf("%w: required account %q does not exist", apperrors.ErrValidation, MainAccountName)
	}
	logistics, ok := accounts[strings.ToLower(LogisticsAccountName)]
	if !ok {
		return nil, fmt.Errorf("%w: required account %q does not exist", apperrors.ErrValidation, LogisticsAccountName)
	}
	admin, ok := accounts[strings.ToLower(AdminAccountName)]
	if !ok {
		return nil, fmt.Errorf("%w: required account %q does not exist", apperrors.ErrValidation, AdminAccountName)
	}

	deptAccounts, err := s.projectRepo.FindDepartmentAccountsInTx(ctx, tx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve department accounts: %w", err)
	}

	now := time.Now().UTC()
	total := project.Charges
	txns := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			Amount:        total,
			Description:   fmt.Sprintf("Payment received: %s", project.CompanyName),
			Timestamp:     now,
			ToAccountID:   &main.AccountID,
			ProjectID:     &projectID,
			CreatedBy:     actorUserID,
		},
		{
			TransactionID: uuid.NewString(),
			Amount:        total.Mul(logisticsShare),
			Description:   "Logistics split",
			Timestamp:     now,
			FromAccountID: &main.AccountID,
			ToAccountID:   &logistics.AccountID,
			ProjectID:     &projectID,
			CreatedBy:     actorUserID,
		},
		{
			TransactionID: uuid.NewString(),
			Amount:        total.Mul(adminShare),
			Description:   "Admin split",
			Timestamp:     now,
			FromAccountID: &main.AccountID,
			ToAccountID:   &admin.AccountID,
			ProjectID:     &projectID,
			CreatedBy:     actorUserID,
		},
	}

	// The 35% pool is divided evenly across the distinct department accounts.
	// With no attributable departments the pool simply stays on Main.
	if len(deptAccounts) > 0 {
		perDept := total.Mul(deptPoolShare).Div(decimal.NewFromInt(int64(len(deptAccounts))))
		for i := range deptAccounts {
			dept := deptAccounts[i]
			txns = append(txns, domain.Transaction{
				TransactionID: uuid.NewString(),
				Amount:        perDept,
				Description:   fmt.Sprintf("Department split: %s", dept.Name),
				Timestamp:     now,
				FromAccountID: &main.AccountID,
				ToAccountID:   &dept.AccountID,
				ProjectID:     &projectID,
				CreatedBy:     actorUserID,
			})
		}
	}

	if err := s.financeRepo.SaveTransactionsInTx(ctx, tx, txns); err != nil {
		return nil, fmt.Errorf("failed to save split transactions: %w", err)
	}
	if err := s.projectRepo.MarkProjectPaidInTx(ctx, tx, projectID, actorUserID, now); err != nil {
		return nil, fmt.Errorf("failed to mark project paid: %w", err)
	}
	if err := s.financeRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Project payment split recorded",
		slog.String("project_id", projectID),
		slog.String("total", total.String()),
		slog.Int("departments", len(deptAccounts)),
		slog.String("actor", actorUserID))

	return &dto.PaymentSplitResponse{
		ProjectID:    projectID,
		TotalCharges: total,
		Transactions: dto.ToTransactionResponses(txns),
	}, nil
}

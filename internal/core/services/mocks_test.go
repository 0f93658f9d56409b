package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
)

// Shared mock repositories for the service test suites. The transaction
// manager methods return a nil pgx.Tx: the services only thread the handle
// through, so the mocks match it with mock.Anything.

// MockEquipmentRepository is a mock type for the EquipmentRepositoryFacade interface
type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) FindItemByID(ctx context.Context, itemID string) (*domain.EquipmentItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentItem), args.Error(1)
}

func (m *MockEquipmentRepository) ListItems(ctx context.Context, categoryID *string) ([]domain.EquipmentItem, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentItem), args.Error(1)
}

func (m *MockEquipmentRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.EquipmentCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentCategory), args.Error(1)
}

func (m *MockEquipmentRepository) ListCategories(ctx context.Context) ([]domain.EquipmentCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentCategory), args.Error(1)
}

func (m *MockEquipmentRepository) SaveCategory(ctx context.Context, category domain.EquipmentCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockEquipmentRepository) SaveItem(ctx context.Context, item domain.EquipmentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockEquipmentRepository) UpdateItem(ctx context.Context, item domain.EquipmentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockEquipmentRepository) FindItemsForUpdate(ctx context.Context, tx pgx.Tx, itemIDs []string) (map[string]domain.EquipmentItem, error) {
	args := m.Called(ctx, tx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.EquipmentItem), args.Error(1)
}

func (m *MockEquipmentRepository) ListDamagedLogs(ctx context.Context) ([]domain.CheckoutLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckoutLog), args.Error(1)
}

func (m *MockEquipmentRepository) FindLogByID(ctx context.Context, logID string) (*domain.CheckoutLog, error) {
	args := m.Called(ctx, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutLog), args.Error(1)
}

func (m *MockEquipmentRepository) DeleteLog(ctx context.Context, logID string) error {
	args := m.Called(ctx, logID)
	return args.Error(0)
}

// MockRequestRepository is a mock type for the RequestRepositoryWithTx interface
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRequestRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRequestRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.EquipmentRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentRequest), args.Error(1)
}

func (m *MockRequestRepository) FindRequestedItems(ctx context.Context, requestID string) ([]domain.RequestedItem, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestedItem), args.Error(1)
}

func (m *MockRequestRepository) FindLogsByRequestID(ctx context.Context, requestID string) ([]domain.CheckoutLog, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckoutLog), args.Error(1)
}

func (m *MockRequestRepository) ListRequests(ctx context.Context, filter portsrepo.ListRequestsFilter, limit int, nextToken *string) ([]domain.EquipmentRequest, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var requests []domain.EquipmentRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.EquipmentRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return requests, token, args.Error(2)
}

func (m *MockRequestRepository) SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.EquipmentRequest, lines []domain.RequestedItem) error {
	args := m.Called(ctx, tx, request, lines)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.EquipmentRequest, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentRequest), args.Error(1)
}

func (m *MockRequestRepository) FindRequestedItemsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.RequestedItem, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestedItem), args.Error(1)
}

func (m *MockRequestRepository) UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, status domain.RequestStatus, adminNotes *string) error {
	args := m.Called(ctx, tx, requestID, status, adminNotes)
	return args.Error(0)
}

func (m *MockRequestRepository) SaveCheckoutLogsInTx(ctx context.Context, tx pgx.Tx, logs []domain.CheckoutLog) error {
	args := m.Called(ctx, tx, logs)
	return args.Error(0)
}

func (m *MockRequestRepository) FindOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) ([]domain.CheckoutLog, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckoutLog), args.Error(1)
}

func (m *MockRequestRepository) CloseLogsInTx(ctx context.Context, tx pgx.Tx, closures []portsrepo.LogClosure, checkedInBy string, checkedInAt time.Time) error {
	args := m.Called(ctx, tx, closures, checkedInBy, checkedInAt)
	return args.Error(0)
}

func (m *MockRequestRepository) CountOpenLogsInTx(ctx context.Context, tx pgx.Tx, requestID string) (int64, error) {
	args := m.Called(ctx, tx, requestID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFinanceRepository is a mock type for the FinanceRepositoryWithTx interface
type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockFinanceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinanceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockFinanceRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockFinanceRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockFinanceRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinanceRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockFinanceRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockFinanceRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockFinanceRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) error {
	args := m.Called(ctx, tx, txns)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindAccountsByNamesInTx(ctx context.Context, tx pgx.Tx, names []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockFinanceRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockFinanceRepository) ListExpenses(ctx context.Context, filter portsrepo.ListExpensesFilter, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return expenses, token, args.Error(2)
}

func (m *MockFinanceRepository) SaveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

// MockProjectRepository is a mock type for the ProjectRepositoryWithTx interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockProjectRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProjectRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, filter portsrepo.ListProjectsFilter, limit int, nextToken *string) ([]domain.Project, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var projects []domain.Project
	if args.Get(0) != nil {
		projects = args.Get(0).([]domain.Project)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return projects, token, args.Error(2)
}

func (m *MockProjectRepository) FindServiceByID(ctx context.Context, serviceID string) (*domain.Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockProjectRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *MockProjectRepository) ListAllocations(ctx context.Context, projectID string) ([]domain.ProjectAllocation, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectAllocation), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveService(ctx context.Context, service domain.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveAllocation(ctx context.Context, allocation domain.ProjectAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByIDForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, tx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) MarkProjectPaidInTx(ctx context.Context, tx pgx.Tx, projectID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, projectID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockProjectRepository) FindDepartmentAccountsInTx(ctx context.Context, tx pgx.Tx, projectID string) ([]domain.Account, error) {
	args := m.Called(ctx, tx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
)

type FinanceServiceTestSuite struct {
	suite.Suite
	mockFinanceRepo *MockFinanceRepository
	mockProjectRepo *MockProjectRepository
	service         portssvc.FinanceSvcFacade

	mainAccount      domain.Account
	logisticsAccount domain.Account
	adminAccount     domain.Account
}

func (suite *FinanceServiceTestSuite) SetupTest() {
	suite.mockFinanceRepo = new(MockFinanceRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.service = services.NewFinanceService(suite.mockFinanceRepo, suite.mockProjectRepo)

	suite.mainAccount = domain.Account{AccountID: uuid.NewString(), Name: services.MainAccountName}
	suite.logisticsAccount = domain.Account{AccountID: uuid.NewString(), Name: services.LogisticsAccountName}
	suite.adminAccount = domain.Account{AccountID: uuid.NewString(), Name: services.AdminAccountName}
}

func (suite *FinanceServiceTestSuite) expectTx() {
	suite.mockFinanceRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockFinanceRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *FinanceServiceTestSuite) splitAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"main account": suite.mainAccount,
		"logistics":    suite.logisticsAccount,
		"admin":        suite.adminAccount,
	}
}

// --- Accounts ---

func (suite *FinanceServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	suite.mockFinanceRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "  Sound Dept  "}, creatorID)

	suite.Require().NoError(err)
	suite.Equal("Sound Dept", account.Name)
	suite.True(account.Balance.IsZero())
	suite.Equal(creatorID, account.CreatedBy)
}

func (suite *FinanceServiceTestSuite) TestCreateAccount_BlankName() {
	ctx := context.Background()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "   "}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFinanceRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// --- Expenses ---

func (suite *FinanceServiceTestSuite) TestCreateExpense_PairsDebitTransaction() {
	ctx := context.Background()
	accountID := uuid.NewString()
	actorID := uuid.NewString()

	req := dto.CreateExpenseRequest{
		Description: "Generator fuel",
		Amount:      decimal.RequireFromString("85.50"),
		ExpenseDate: time.Now().UTC(),
		AccountID:   accountID,
	}

	suite.mockFinanceRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{AccountID: accountID}, nil).Once()
	suite.expectTx()
	suite.mockFinanceRepo.On("SaveExpenseInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.mockFinanceRepo.On("SaveTransactionsInTx", ctx, mock.Anything, mock.MatchedBy(func(txns []domain.Transaction) bool {
		if len(txns) != 1 {
			return false
		}
		txn := txns[0]
		return txn.Amount.Equal(req.Amount) &&
			txn.FromAccountID != nil && *txn.FromAccountID == accountID &&
			txn.ToAccountID == nil &&
			txn.ExpenseID != nil &&
			txn.Description == "Expense: Generator fuel" &&
			txn.CreatedBy == actorID
	})).Return(nil).Once()
	suite.mockFinanceRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Equal(actorID, expense.AddedBy)
	suite.mockFinanceRepo.AssertExpectations(suite.T())
}

func (suite *FinanceServiceTestSuite) TestCreateExpense_NonPositiveAmount() {
	ctx := context.Background()

	expense, err := suite.service.CreateExpense(ctx, dto.CreateExpenseRequest{
		Description: "Nothing",
		Amount:      decimal.Zero,
		AccountID:   uuid.NewString(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFinanceRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- Manual transactions ---

func (suite *FinanceServiceTestSuite) TestCreateTransaction_RequiresAnAccountSide() {
	ctx := context.Background()

	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Amount:      decimal.RequireFromString("50"),
		Description: "Floating money",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FinanceServiceTestSuite) TestCreateTransaction_Transfer() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockFinanceRepo.On("FindAccountByID", ctx, fromID).Return(&domain.Account{AccountID: fromID}, nil).Once()
	suite.mockFinanceRepo.On("FindAccountByID", ctx, toID).Return(&domain.Account{AccountID: toID}, nil).Once()
	suite.mockFinanceRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Amount:        decimal.RequireFromString("200"),
		Description:   "Float top-up",
		FromAccountID: &fromID,
		ToAccountID:   &toID,
	}, actorID)

	suite.Require().NoError(err)
	suite.Equal(actorID, txn.CreatedBy)
	suite.Equal(fromID, *txn.FromAccountID)
	suite.Equal(toID, *txn.ToAccountID)
}

// --- ReceivePayment ---

func (suite *FinanceServiceTestSuite) TestReceivePayment_SplitsAcrossDepartments() {
	ctx := context.Background()
	projectID := uuid.NewString()
	actorID := uuid.NewString()

	soundDept := domain.Account{AccountID: uuid.NewString(), Name: "Sound Dept"}
	lightsDept := domain.Account{AccountID: uuid.NewString(), Name: "Lights Dept"}

	suite.expectTx()
	suite.mockProjectRepo.On("FindProjectByIDForUpdate", ctx, mock.Anything, projectID).Return(&domain.Project{
		ProjectID:   projectID,
		CompanyName: "Acme Events",
		Charges:     decimal.RequireFromString("1000"),
		IsPaid:      false,
	}, nil).Once()
	suite.mockFinanceRepo.On("FindAccountsByNamesInTx", ctx, mock.Anything, mock.Anything).Return(suite.splitAccounts(), nil).Once()
	suite.mockProjectRepo.On("FindDepartmentAccountsInTx", ctx, mock.Anything, projectID).Return([]domain.Account{lightsDept, soundDept}, nil).Once()

	var saved []domain.Transaction
	suite.mockFinanceRepo.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).Run(func(args mock.Arguments) {
		saved = args.Get(2).([]domain.Transaction)
	}).Return(nil).Once()
	suite.mockProjectRepo.On("MarkProjectPaidInTx", ctx, mock.Anything, projectID, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFinanceRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	resp, err := suite.service.ReceivePayment(ctx, projectID, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.TotalCharges.Equal(decimal.RequireFromString("1000")))
	suite.Require().Len(saved, 5)

	// Full payment lands on Main first.
	suite.Nil(saved[0].FromAccountID)
	suite.Equal(suite.mainAccount.AccountID, *saved[0].ToAccountID)
	suite.True(saved[0].Amount.Equal(decimal.RequireFromString("1000")))

	// 10% to Logistics, 15% to Admin, both debited from Main.
	suite.Equal(suite.logisticsAccount.AccountID, *saved[1].ToAccountID)
	suite.True(saved[1].Amount.Equal(decimal.RequireFromString("100")))
	suite.Equal(suite.adminAccount.AccountID, *saved[2].ToAccountID)
	suite.True(saved[2].Amount.Equal(decimal.RequireFromString("150")))

	// 35% pool divided evenly across the two department accounts.
	deptTotal := decimal.Zero
	for _, txn := range saved[3:] {
		suite.Equal(suite.mainAccount.AccountID, *txn.FromAccountID)
		suite.True(txn.Amount.Equal(decimal.RequireFromString("175")))
		deptTotal = deptTotal.Add(txn.Amount)
	}
	suite.True(deptTotal.Equal(decimal.RequireFromString("350")))

	// 100 + 150 + 350 moved off Main; the 40% residual stays put.
	movedOffMain := decimal.Zero
	for _, txn := range saved[1:] {
		movedOffMain = movedOffMain.Add(txn.Amount)
	}
	suite.True(movedOffMain.Equal(decimal.RequireFromString("600")))

	suite.mockFinanceRepo.AssertExpectations(suite.T())
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *FinanceServiceTestSuite) TestReceivePayment_NoDepartmentsLeavesPoolOnMain() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.expectTx()
	suite.mockProjectRepo.On("FindProjectByIDForUpdate", ctx, mock.Anything, projectID).Return(&domain.Project{
		ProjectID:   projectID,
		CompanyName: "Acme Events",
		Charges:     decimal.RequireFromString("1000"),
	}, nil).Once()
	suite.mockFinanceRepo.On("FindAccountsByNamesInTx", ctx, mock.Anything, mock.Anything).Return(suite.splitAccounts(), nil).Once()
	suite.mockProjectRepo.On("FindDepartmentAccountsInTx", ctx, mock.Anything, projectID).Return([]domain.Account{}, nil).Once()

	var saved []domain.Transaction
	suite.mockFinanceRepo.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).Run(func(args mock.Arguments) {
		saved = args.Get(2).([]domain.Transaction)
	}).Return(nil).Once()
	suite.mockProjectRepo.On("MarkProjectPaidInTx", ctx, mock.Anything, projectID, mock.Anything, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFinanceRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	resp, err := suite.service.ReceivePayment(ctx, projectID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)

	// No department transfers: only the credit plus the two fixed splits.
	suite.Require().Len(saved, 3)
	movedOffMain := decimal.Zero
	for _, txn := range saved[1:] {
		movedOffMain = movedOffMain.Add(txn.Amount)
	}
	suite.True(movedOffMain.Equal(decimal.RequireFromString("250")))
}

func (suite *FinanceServiceTestSuite) TestReceivePayment_AlreadyPaid() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.expectTx()
	suite.mockProjectRepo.On("FindProjectByIDForUpdate", ctx, mock.Anything, projectID).Return(&domain.Project{
		ProjectID: projectID,
		Charges:   decimal.RequireFromString("1000"),
		IsPaid:    true,
	}, nil).Once()

	resp, err := suite.service.ReceivePayment(ctx, projectID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockFinanceRepo.AssertNotCalled(suite.T(), "SaveTransactionsInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "MarkProjectPaidInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceServiceTestSuite) TestReceivePayment_MissingRequiredAccount() {
	ctx := context.Background()
	projectID := uuid.NewString()

	accounts := suite.splitAccounts()
	delete(accounts, "logistics")

	suite.expectTx()
	suite.mockProjectRepo.On("FindProjectByIDForUpdate", ctx, mock.Anything, projectID).Return(&domain.Project{
		ProjectID: projectID,
		Charges:   decimal.RequireFromString("1000"),
	}, nil).Once()
	suite.mockFinanceRepo.On("FindAccountsByNamesInTx", ctx, mock.Anything, mock.Anything).Return(accounts, nil).Once()

	resp, err := suite.service.ReceivePayment(ctx, projectID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFinanceRepo.AssertNotCalled(suite.T(), "SaveTransactionsInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockFinanceRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *FinanceServiceTestSuite) TestReceivePayment_ZeroCharges() {
	ctx := context.Background()
	projectID := uuid.NewString()

	suite.expectTx()
	suite.mockProjectRepo.On("FindProjectByIDForUpdate", ctx, mock.Anything, projectID).Return(&domain.Project{
		ProjectID: projectID,
		Charges:   decimal.Zero,
	}, nil).Once()

	resp, err := suite.service.ReceivePayment(ctx, projectID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestFinanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FinanceServiceTestSuite))
}

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

type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockFinanceRepo *MockFinanceRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.ProjectSvcFacade
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockFinanceRepo = new(MockFinanceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewProjectService(suite.mockProjectRepo, suite.mockFinanceRepo, suite.mockUserRepo)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_StartsUpcomingAndUnpaid() {
	ctx := context.Background()
	serviceID := uuid.NewString()
	creatorID := uuid.NewString()
	start := time.Now().UTC()

	suite.mockProjectRepo.On("FindServiceByID", ctx, serviceID).Return(&domain.Service{ServiceID: serviceID}, nil).Once()
	suite.mockProjectRepo.On("SaveProject", ctx, mock.AnythingOfType("domain.Project")).Return(nil).Once()

	project, err := suite.service.CreateProject(ctx, dto.CreateProjectRequest{
		CompanyName: "Acme Events",
		ServiceIDs:  []string{serviceID},
		DateFrom:    start,
		DateTo:      start.Add(48 * time.Hour),
		Charges:     decimal.RequireFromString("5000"),
	}, creatorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ProjectUpcoming, project.Status)
	suite.False(project.IsPaid)
	suite.Equal(creatorID, project.CreatedBy)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_EndBeforeStart() {
	ctx := context.Background()
	start := time.Now().UTC()

	project, err := suite.service.CreateProject(ctx, dto.CreateProjectRequest{
		CompanyName: "Acme Events",
		DateFrom:    start,
		DateTo:      start.Add(-time.Hour),
		Charges:     decimal.RequireFromString("5000"),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveProject", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UnknownService() {
	ctx := context.Background()
	serviceID := uuid.NewString()
	start := time.Now().UTC()

	suite.mockProjectRepo.On("FindServiceByID", ctx, serviceID).Return(nil, apperrors.ErrNotFound).Once()

	project, err := suite.service.CreateProject(ctx, dto.CreateProjectRequest{
		CompanyName: "Acme Events",
		ServiceIDs:  []string{serviceID},
		DateFrom:    start,
		DateTo:      start.Add(time.Hour),
		Charges:     decimal.RequireFromString("5000"),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_ChargesFrozenAfterPayment() {
	ctx := context.Background()
	projectID := uuid.NewString()
	start := time.Now().UTC()

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(&domain.Project{
		ProjectID: projectID,
		DateFrom:  start,
		DateTo:    start.Add(time.Hour),
		Charges:   decimal.RequireFromString("5000"),
		IsPaid:    true,
	}, nil).Once()

	newCharges := decimal.RequireFromString("9000")
	project, err := suite.service.UpdateProject(ctx, projectID, dto.UpdateProjectRequest{Charges: &newCharges}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "UpdateProject", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestAllocateTeam_DuplicateAllocation() {
	ctx := context.Background()
	projectID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(&domain.Project{ProjectID: projectID}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID}, nil).Once()
	suite.mockProjectRepo.On("SaveAllocation", ctx, mock.AnythingOfType("domain.ProjectAllocation")).Return(apperrors.ErrDuplicate).Once()

	allocation, err := suite.service.AllocateTeam(ctx, projectID, userID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(allocation)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ProjectServiceTestSuite) TestAllocateTeam_UnknownUser() {
	ctx := context.Background()
	projectID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(&domain.Project{ProjectID: projectID}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	allocation, err := suite.service.AllocateTeam(ctx, projectID, userID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(allocation)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestCreateService_UnknownDepartmentAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockFinanceRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	service, err := suite.service.CreateService(ctx, dto.CreateServiceRequest{
		Name:                "Sound Engineering",
		DepartmentAccountID: &accountID,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(service)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveService", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestCreateService_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockFinanceRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{AccountID: accountID}, nil).Once()
	suite.mockProjectRepo.On("SaveService", ctx, mock.AnythingOfType("domain.Service")).Return(nil).Once()

	service, err := suite.service.CreateService(ctx, dto.CreateServiceRequest{
		Name:                "Sound Engineering",
		DepartmentAccountID: &accountID,
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Sound Engineering", service.Name)
	suite.Equal(accountID, *service.DepartmentAccountID)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

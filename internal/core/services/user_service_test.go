package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_NormalizesUsername() {
	ctx := context.Background()

	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "amina" && u.PasswordHash != "" && u.PasswordHash != "secret-password"
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Username: "  Amina ",
		Name:     "Amina K",
		Password: "secret-password",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("amina", user.Username)
	suite.False(user.IsStaff)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_StaffFlagInPayloadIgnored() {
	ctx := context.Background()

	// A hand-crafted body smuggling isStaff must not mint a staff account:
	// the registration payload has no such field, so the flag is dropped at
	// bind time and the account is created non-staff.
	var req dto.RegisterUserRequest
	body := []byte(`{"username":"mallory","name":"Mallory","password":"12345678","isStaff":true}`)
	suite.Require().NoError(json.Unmarshal(body, &req))

	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return !u.IsStaff
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req, "")

	suite.Require().NoError(err)
	suite.False(user.IsStaff)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSetUserStaff_Promotes() {
	ctx := context.Background()
	userID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockRepo.On("FindUserByID", ctx, userID).Return(&domain.User{
		UserID:   userID,
		Username: "amina",
		IsStaff:  false,
	}, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == userID && u.IsStaff && u.LastUpdatedBy == actorID
	})).Return(nil).Once()

	user, err := suite.service.SetUserStaff(ctx, userID, true, actorID)

	suite.Require().NoError(err)
	suite.True(user.IsStaff)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSetUserStaff_NoWriteWhenUnchanged() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("FindUserByID", ctx, userID).Return(&domain.User{
		UserID:  userID,
		IsStaff: true,
	}, nil).Once()

	user, err := suite.service.SetUserStaff(ctx, userID, true, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(user.IsStaff)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	ctx := context.Background()

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Username: "amina",
		Name:     "Amina K",
		Password: "secret-password",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("secret-password")
	suite.Require().NoError(err)

	suite.mockRepo.On("FindUserByUsername", ctx, "amina").Return(&domain.User{
		UserID:       uuid.NewString(),
		Username:     "amina",
		PasswordHash: hash,
	}, nil).Once()

	user, err := suite.service.Authenticate(ctx, "Amina", "secret-password")

	suite.Require().NoError(err)
	suite.Equal("amina", user.Username)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("secret-password")
	suite.Require().NoError(err)

	suite.mockRepo.On("FindUserByUsername", ctx, "amina").Return(&domain.User{
		Username:     "amina",
		PasswordHash: hash,
	}, nil).Once()

	user, err := suite.service.Authenticate(ctx, "amina", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUserSameError() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Authenticate(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	suite.Nil(user)
	// Unknown user and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.EqualError(err, "forbidden: invalid credentials")
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

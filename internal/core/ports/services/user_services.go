package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
)

// UserSvcFacade exposes user registration and credential verification.
type UserSvcFacade interface {
	// RegisterUser creates a new account. The account is always non-staff;
	// only SetUserStaff can grant the capability.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest, creatorUserID string) (*domain.User, error)

	// SetUserStaff grants or revokes the staff capability on an existing user.
	SetUserStaff(ctx context.Context, userID string, isStaff bool, actorUserID string) (*domain.User, error)

	// Authenticate verifies username/password and returns the user on success.
	Authenticate(ctx context.Context, username string, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// projectService implements project management: CRUD, service offerings and
// team allocation.
type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
	financeRepo portsrepo.FinanceRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	financeRepo portsrepo.FinanceRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo, financeRepo: financeRepo, userRepo: userRepo}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject creates a new project in UPCOMING state, unpaid.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	if req.DateTo.Before(req.DateFrom) {
		return nil, fmt.Errorf("%w: project end date precedes start date", apperrors.ErrValidation)
	}
	if req.Charges.IsNegative() {
		return nil, fmt.Errorf("%w: project charges cannot be negative", apperrors.ErrValidation)
	}
	for _, serviceID := range req.ServiceIDs {
		if _, err := s.projectRepo.FindServiceByID(ctx, serviceID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: service %s does not exist", apperrors.ErrValidation, serviceID)
			}
			return nil, fmt.Errorf("failed to verify service: %w", err)
		}
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:     uuid.NewString(),
		CompanyName:   req.CompanyName,
		ServiceIDs:    req.ServiceIDs,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		Charges:       req.Charges,
		Status:        domain.ProjectUpcoming,
		IsPaid:        false,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return &project, nil
}

// GetProject returns one project.
func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjects returns a filtered, token-paginated page of projects.
func (s *projectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error) {
	filter := portsrepo.ListProjectsFilter{}
	if params.Status != "" {
		status := domain.ProjectStatus(params.Status)
		filter.Status = &status
	}
	if params.Search != "" {
		search := params.Search
		filter.Search = &search
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	projects, nextToken, err := s.projectRepo.ListProjects(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &dto.ListProjectsResponse{
		Projects:  dto.ToProjectResponses(projects),
		NextToken: nextToken,
	}, nil
}

// UpdateProject merges the provided fields into the project. IsPaid is not
// updatable here; only the payment split flips it.
func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, updaterUserID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		project.CompanyName = *req.CompanyName
	}
	if req.ServiceIDs != nil {
		for _, serviceID := range *req.ServiceIDs {
			if _, err := s.projectRepo.FindServiceByID(ctx, serviceID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: service %s does not exist", apperrors.ErrValidation, serviceID)
				}
				return nil, fmt.Errorf("failed to verify service: %w", err)
			}
		}
		project.ServiceIDs = *req.ServiceIDs
	}
	if req.DateFrom != nil {
		project.DateFrom = *req.DateFrom
	}
	if req.DateTo != nil {
		project.DateTo = *req.DateTo
	}
	if project.DateTo.Before(project.DateFrom) {
		return nil, fmt.Errorf("%w: project end date precedes start date", apperrors.ErrValidation)
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.ContactPerson != nil {
		project.ContactPerson = *req.ContactPerson
	}
	if req.Charges != nil {
		if project.IsPaid {
			return nil, fmt.Errorf("%w: charges cannot change after payment", apperrors.ErrConflict)
		}
		if req.Charges.IsNegative() {
			return nil, fmt.Errorf("%w: project charges cannot be negative", apperrors.ErrValidation)
		}
		project.Charges = *req.Charges
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	project.LastUpdatedAt = time.Now().UTC()
	project.LastUpdatedBy = updaterUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// AllocateTeam assigns a user to a project. Allocating the same user twice
// surfaces as a duplicate, not a second row.
func (s *projectService) AllocateTeam(ctx context.Context, projectID string, userID string, allocatorUserID string) (*domain.ProjectAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s does not exist", apperrors.ErrValidation, userID)
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	allocation := domain.ProjectAllocation{
		AllocationID: uuid.NewString(),
		ProjectID:    projectID,
		UserID:       userID,
		AllocatedBy:  allocatorUserID,
		AllocatedAt:  time.Now().UTC(),
	}

	if err := s.projectRepo.SaveAllocation(ctx, allocation); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user %s is already allocated to this project", apperrors.ErrDuplicate, userID)
		}
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}

	logger.Info("Team member allocated",
		slog.String("project_id", projectID),
		slog.String("user_id", userID))
	return &allocation, nil
}

// ListAllocations returns the team allocated to a project.
func (s *projectService) ListAllocations(ctx context.Context, projectID string) ([]domain.ProjectAllocation, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projectRepo.ListAllocations(ctx, projectID)
}

// CreateService adds a service offering, optionally attributed to a
// department account for the payment split.
func (s *projectService) CreateService(ctx context.Context, req dto.CreateServiceRequest, creatorUserID string) (*domain.Service, error) {
	if req.DepartmentAccountID != nil {
		if _, err := s.financeRepo.FindAccountByID(ctx, *req.DepartmentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, *req.DepartmentAccountID)
			}
			return nil, fmt.Errorf("failed to verify account: %w", err)
		}
	}

	service := domain.Service{
		ServiceID:           uuid.NewString(),
		Name:                req.Name,
		DepartmentAccountID: req.DepartmentAccountID,
	}

	if err := s.projectRepo.SaveService(ctx, service); err != nil {
		return nil, err
	}
	return &service, nil
}

// ListServices returns all service offerings.
func (s *projectService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.projectRepo.ListServices(ctx)
}

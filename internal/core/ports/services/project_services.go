package services

import (
	"context"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
)

// ProjectSvcFacade exposes project management: CRUD, service offerings and
// team allocation.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error)
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, updaterUserID string) (*domain.Project, error)

	AllocateTeam(ctx context.Context, projectID string, userID string, allocatorUserID string) (*domain.ProjectAllocation, error)
	ListAllocations(ctx context.Context, projectID string) ([]domain.ProjectAllocation, error)

	CreateService(ctx context.Context, req dto.CreateServiceRequest, creatorUserID string) (*domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

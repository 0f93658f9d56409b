package repositories

import (
	"context"
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ListProjectsFilter narrows project listings.
type ListProjectsFilter struct {
	Status *domain.ProjectStatus
	Search *string // Matches company name or contact person
}

// ProjectReader defines read operations for projects and services.
type ProjectReader interface {
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, filter ListProjectsFilter, limit int, nextToken *string) ([]domain.Project, *string, error)
	FindServiceByID(ctx context.Context, serviceID string) (*domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListAllocations(ctx context.Context, projectID string) ([]domain.ProjectAllocation, error)
}

// ProjectWriter defines write operations for projects and services.
type ProjectWriter interface {
	SaveProject(ctx context.Context, project domain.Project) error
	UpdateProject(ctx context.Context, project domain.Project) error
	SaveService(ctx context.Context, service domain.Service) error
	SaveAllocation(ctx context.Context, allocation domain.ProjectAllocation) error
}

// ProjectPaymentSupport defines the operations the payment split runs inside
// its transaction.
type ProjectPaymentSupport interface {
	// FindProjectByIDForUpdate locks and retrieves a project row, serializing
	// concurrent payment attempts on the is_paid guard.
	FindProjectByIDForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error)

	// MarkProjectPaidInTx flips the is_paid flag.
	MarkProjectPaidInTx(ctx context.Context, tx pgx.Tx, projectID string, updatedBy string, updatedAt time.Time) error

	// FindDepartmentAccountsInTx resolves the distinct department accounts
	// implied by the project's services. Services with no department
	// attribution contribute nothing.
	FindDepartmentAccountsInTx(ctx context.Context, tx pgx.Tx, projectID string) ([]domain.Account, error)
}

// ProjectRepositoryFacade combines all project-related repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectPaymentSupport
}

// ProjectRepositoryWithTx extends ProjectRepositoryFacade with transaction capabilities.
type ProjectRepositoryWithTx interface {
	ProjectRepositoryFacade
	TransactionManager
}

package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fikiricreative/fikiri_ops_app/internal/apperrors"
	"github.com/fikiricreative/fikiri_ops_app/internal/core/domain"
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	"github.com/fikiricreative/fikiri_ops_app/internal/utils/pagination"
)

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for projects, services and
// team allocations.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryWithTx {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryWithTx = (*PgxProjectRepository)(nil)

const projectSelectColumns = `project_id, company_name, date_from, date_to, location, contact_person, charges, status, is_paid, description, created_at, created_by, last_updated_at, last_updated_by`

// scanProject reads one project row. ServiceIDs are loaded separately from the
// join table.
func scanProject(row pgx.Row) (domain.Project, error) {
	var project domain.Project
	var location, contactPerson, description sql.NullString

	err := row.Scan(
		&project.ProjectID,
		&project.CompanyName,
		&project.DateFrom,
		&project.DateTo,
		&location,
		&contactPerson,
		&project.Charges,
		&project.Status,
		&project.IsPaid,
		&description,
		&project.CreatedAt,
		&project.CreatedBy,
		&project.LastUpdatedAt,
		&project.LastUpdatedBy,
	)
	if err != nil {
		return domain.Project{}, err
	}

	if location.Valid {
		project.Location = location.String
	}
	if contactPerson.Valid {
		project.ContactPerson = contactPerson.String
	}
	if description.Valid {
		project.Description = description.String
	}
	return project, nil
}

// SaveProject inserts a project and its service links in one transaction.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO projects (project_id, company_name, date_from, date_to, location, contact_person, charges, status, is_paid, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	if _, err := tx.Exec(ctx, query,
		project.ProjectID,
		project.CompanyName,
		project.DateFrom,
		project.DateTo,
		project.Location,
		project.ContactPerson,
		project.Charges,
		project.Status,
		project.IsPaid,
		project.Description,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ProjectID, err)
	}

	if err := r.replaceServiceLinks(ctx, tx, project.ProjectID, project.ServiceIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateProject updates a project's mutable fields and rewrites its service links.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		UPDATE projects
		SET company_name = $2, date_from = $3, date_to = $4, location = $5, contact_person = $6,
		    charges = $7, status = $8, description = $9, last_updated_at = $10, last_updated_by = $11
		WHERE project_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		project.ProjectID,
		project.CompanyName,
		project.DateFrom,
		project.DateTo,
		project.Location,
		project.ContactPerson,
		project.Charges,
		project.Status,
		project.Description,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ProjectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_services WHERE project_id = $1;`, project.ProjectID); err != nil {
		return fmt.Errorf("failed to clear service links for project %s: %w", project.ProjectID, err)
	}
	if err := r.replaceServiceLinks(ctx, tx, project.ProjectID, project.ServiceIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgxProjectRepository) replaceServiceLinks(ctx context.Context, tx pgx.Tx, projectID string, serviceIDs []string) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, serviceID := range serviceIDs {
		batch.Queue(`INSERT INTO project_services (project_id, service_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`, projectID, serviceID)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to link service %s to project %s: %w", serviceIDs[i], projectID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close service link batch: %w", err)
	}
	return batchErr
}

// FindProjectByID retrieves a project with its service links.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectSelectColumns + ` FROM projects WHERE project_id = $1;`
	project, err := scanProject(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project by ID %s: %w", projectID, err)
	}

	serviceIDs, err := r.findServiceIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.ServiceIDs = serviceIDs
	return &project, nil
}

func (r *PgxProjectRepository) findServiceIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT service_id FROM project_services WHERE project_id = $1 ORDER BY service_id;`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service links for project %s: %w", projectID, err)
	}
	defer rows.Close()

	serviceIDs := []string{}
	for rows.Next() {
		var serviceID string
		if err := rows.Scan(&serviceID); err != nil {
			return nil, fmt.Errorf("failed to scan service link row: %w", err)
		}
		serviceIDs = append(serviceIDs, serviceID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service link rows: %w", err)
	}
	return serviceIDs, nil
}

// ListProjects retrieves a filtered, token-paginated page of projects, newest
// first. Service links are not populated on listings.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, filter portsrepo.ListProjectsFilter, limit int, nextToken *string) ([]domain.Project, *string, error) {
	args := []any{}
	query := `SELECT ` + projectSelectColumns + ` FROM projects WHERE 1=1`

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		query += fmt.Sprintf(" AND (company_name ILIKE $%d OR contact_person ILIKE $%d)", len(args), len(args))
	}
	if nextToken != nil && *nextToken != "" {
		boundaryTime, boundaryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, boundaryTime, boundaryID)
		query += fmt.Sprintf(" AND (created_at, project_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, project_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	var newToken *string
	if len(projects) > limit {
		projects = projects[:limit]
		last := projects[len(projects)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ProjectID)
		newToken = &token
	}
	return projects, newToken, nil
}

// FindProjectByIDForUpdate locks and retrieves a project row. Must be called
// within a transaction; the payment split serializes on this lock.
func (r *PgxProjectRepository) FindProjectByIDForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectSelectColumns + ` FROM projects WHERE project_id = $1 FOR UPDATE;`
	project, err := scanProject(tx.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project by ID %s for update: %w", projectID, err)
	}
	return &project, nil
}

// MarkProjectPaidInTx flips the is_paid flag.
func (r *PgxProjectRepository) MarkProjectPaidInTx(ctx context.Context, tx pgx.Tx, projectID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE projects
		SET is_paid = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE project_id = $1 AND is_paid = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, projectID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark project %s paid: %w", projectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the project vanished or it was already paid; the locked read
		// before this call makes the latter unreachable.
		return apperrors.ErrConflict
	}
	return nil
}

// FindDepartmentAccountsInTx resolves the distinct department accounts implied
// by the project's services. Services without a department attribution
// contribute nothing.
func (r *PgxProjectRepository) FindDepartmentAccountsInTx(ctx context.Context, tx pgx.Tx, projectID string) ([]domain.Account, error) {
	query := `
		SELECT DISTINCT a.account_id, a.name
		FROM project_services ps
		JOIN services s ON s.service_id = ps.service_id
		JOIN accounts a ON a.account_id = s.department_account_id
		WHERE ps.project_id = $1
		ORDER BY a.name;
	`
	rows, err := tx.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query department accounts for project %s: %w", projectID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.AccountID, &account.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department account rows: %w", err)
	}
	return accounts, nil
}

// SaveService inserts a service offering.
func (r *PgxProjectRepository) SaveService(ctx context.Context, service domain.Service) error {
	query := `
		INSERT INTO services (service_id, name, department_account_id)
		VALUES ($1, $2, $3);
	`
	_, err := r.Pool.Exec(ctx, query, service.ServiceID, service.Name, service.DepartmentAccountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: service named %q already exists", apperrors.ErrDuplicate, service.Name)
		}
		return fmt.Errorf("failed to save service %s: %w", service.ServiceID, err)
	}
	return nil
}

// FindServiceByID retrieves a single service offering.
func (r *PgxProjectRepository) FindServiceByID(ctx context.Context, serviceID string) (*domain.Service, error) {
	query := `SELECT service_id, name, department_account_id FROM services WHERE service_id = $1;`
	var service domain.Service
	var departmentAccountID sql.NullString

	err := r.Pool.QueryRow(ctx, query, serviceID).Scan(&service.ServiceID, &service.Name, &departmentAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service by ID %s: %w", serviceID, err)
	}
	if departmentAccountID.Valid {
		service.DepartmentAccountID = &departmentAccountID.String
	}
	return &service, nil
}

// ListServices retrieves all service offerings ordered by name.
func (r *PgxProjectRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.Pool.Query(ctx, `SELECT service_id, name, department_account_id FROM services ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		var service domain.Service
		var departmentAccountID sql.NullString
		if err := rows.Scan(&service.ServiceID, &service.Name, &departmentAccountID); err != nil {
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}
		if departmentAccountID.Valid {
			service.DepartmentAccountID = &departmentAccountID.String
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}

// SaveAllocation inserts a team allocation. The (project, user) pair is unique.
func (r *PgxProjectRepository) SaveAllocation(ctx context.Context, allocation domain.ProjectAllocation) error {
	query := `
		INSERT INTO project_allocations (allocation_id, project_id, user_id, allocated_by, allocated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		allocation.AllocationID,
		allocation.ProjectID,
		allocation.UserID,
		allocation.AllocatedBy,
		allocation.AllocatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user %s is already allocated to project %s", apperrors.ErrDuplicate, allocation.UserID, allocation.ProjectID)
		}
		return fmt.Errorf("failed to save allocation %s: %w", allocation.AllocationID, err)
	}
	return nil
}

// ListAllocations retrieves the team allocated to a project.
func (r *PgxProjectRepository) ListAllocations(ctx context.Context, projectID string) ([]domain.ProjectAllocation, error) {
	query := `
		SELECT allocation_id, project_id, user_id, allocated_by, allocated_at
		FROM project_allocations
		WHERE project_id = $1
		ORDER BY allocated_at;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for project %s: %w", projectID, err)
	}
	defer rows.Close()

	allocations := []domain.ProjectAllocation{}
	for rows.Next() {
		var allocation domain.ProjectAllocation
		if err := rows.Scan(
			&allocation.AllocationID,
			&allocation.ProjectID,
			&allocation.UserID,
			&allocation.AllocatedBy,
			&allocation.AllocatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, allocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", err)
	}
	return allocations, nil
}

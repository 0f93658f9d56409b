package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EquipmentRepo: newPgxEquipmentRepository(dbPool),
		RequestRepo:   newPgxRequestRepository(dbPool),
		FinanceRepo:   newPgxFinanceRepository(dbPool),
		ProjectRepo:   newPgxProjectRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
	}
}

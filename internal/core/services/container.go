package services

import (
	portsrepo "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/repositories"
	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
)

// NewServiceContainer wires every application service against the repository
// provider and the optional notification collaborators.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	renderer portssvc.DocumentRenderer,
	mailer portssvc.Mailer,
	manifestRecipients []string,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Equipment: NewEquipmentService(repos.EquipmentRepo),
		Request: NewRequestService(repos.RequestRepo, repos.EquipmentRepo, repos.ProjectRepo,
			WithCheckoutNotifier(renderer, mailer, manifestRecipients)),
		Finance: NewFinanceService(repos.FinanceRepo, repos.ProjectRepo),
		Project: NewProjectService(repos.ProjectRepo, repos.FinanceRepo, repos.UserRepo),
		User:    NewUserService(repos.UserRepo),
	}
}

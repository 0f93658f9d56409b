package repositories

// RepositoryProvider bundles every repository facade the service container needs.
type RepositoryProvider struct {
	EquipmentRepo EquipmentRepositoryFacade
	RequestRepo   RequestRepositoryWithTx
	FinanceRepo   FinanceRepositoryWithTx
	ProjectRepo   ProjectRepositoryWithTx
	UserRepo      UserRepositoryFacade
}

package services

// ServiceContainer bundles the service interfaces for handler registration.
type ServiceContainer struct {
	Account  AccountSvcFacade
	Journal  JournalSvcFacade
	AutoPost AutoPostSvc
}

package services

import (
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first; it doubles as the authorizer everything else
	// gates on.
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.Notifier = NewNotifierService()
	container.Sequence = NewSequenceService(repos.SequenceRepo, authorizer)
	container.User = NewUserService(repos.UserRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo, authorizer)
	container.Job = NewJobService(repos.JobRepo, repos.CustomerRepo, repos.CompanyRepo, authorizer, container.Notifier)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.CustomerRepo, repos.CompanyRepo, repos.JobRepo, repos.UserRepo, authorizer, container.Notifier)

	container.Token = NewTokenService(cfg, container.User, repos.UserRepo)
	container.GoogleAuth = NewGoogleAuthService(cfg)

	return container
}

package services

import (
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation/internal/platform/config"
	"github.com/SscSPs/bank_reconciliation/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, posthogClient *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The authorizer comes first since every other service checks roles through it
	container.Workplace = NewWorkplaceAuthorizer(repos.WorkplaceRepo)

	container.Reconciliation = NewReconciliationService(
		repos.ReconciliationRepo,
		repos.LedgerRepo,
		repos.AccountRepo,
		WithReconciliationWorkplaceAuthorizer(container.Workplace),
		WithAuditSink(NewAuditSink(repos.AuditRepo, posthogClient)),
		WithMatchingEngine(matching.NewEngine(cfg.MatchingConfig())),
		WithBalanceEpsilon(cfg.BalanceEpsilon),
		WithDefaultDateLocale(cfg.DateLocale),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.WorkplaceAuthorizerSvc  = (*workplaceAuthorizer)(nil)
	_ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)
	_ AuditSink                        = (*auditSink)(nil)
)

package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	sequenceRepo := newPgxSequenceRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	jobRepo := newPgxJobRepository(dbPool, sequenceRepo)
	documentRepo := newPgxDocumentRepository(dbPool, sequenceRepo)

	return portsrepo.RepositoryProvider{
		CompanyRepo:  companyRepo,
		UserRepo:     userRepo,
		CustomerRepo: customerRepo,
		JobRepo:      jobRepo,
		DocumentRepo: documentRepo,
		SequenceRepo: sequenceRepo,
	}
}

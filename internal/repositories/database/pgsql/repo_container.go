package pgsql

import (
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	readModelRepo := newReadModelRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		EntryRepo:     entryRepo,
		ReportingRepo: reportingRepo,
		ReadModelRepo: readModelRepo,
	}
}

package components

import (
	"enrollment-sync/internal/infra/memory"
	"enrollment-sync/internal/infra/readstore"
	"enrollment-sync/internal/infra/repository"
	"enrollment-sync/internal/infra/uow"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/usecase/queries"
	"enrollment-sync/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

// Stores is every persistence port the use cases and workers depend on,
// backed by one driver.
type Stores struct {
	fx.Out

	UnitOfWork  shared.UnitOfWork
	Outbox      shared.OutboxStore
	Ledger      shared.LedgerStore
	Enrollments queries.EnrollmentReadStore
	Eligibility queries.EligibilityReadStore
	Resources   queries.ResourceReadStore
}

func NewStores(cfg config.Config, pool *pgxpool.Pool) Stores {
	if cfg.Store.Driver == config.StoreDriverMemory {
		return MemoryStores(memory.NewStore())
	}
	return Stores{
		UnitOfWork:  uow.NewPostgresUoW(pool),
		Outbox:      repository.NewOutboxStore(pool),
		Ledger:      repository.NewLedgerRepository(pool),
		Enrollments: readstore.NewEnrollmentReadStore(pool),
		Eligibility: readstore.NewEligibilityReadStore(pool),
		Resources:   readstore.NewResourceReadStore(pool),
	}
}

func MemoryStores(st *memory.Store) Stores {
	return Stores{
		UnitOfWork:  st,
		Outbox:      st,
		Ledger:      st,
		Enrollments: st,
		Eligibility: st.EligibilityReader(),
		Resources:   st.ResourceReader(),
	}
}

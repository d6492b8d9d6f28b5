package core

import (
	"fmt"
	"os"
	"strings"

	"seismicore/internal/infra/persistence/memory"
	"seismicore/internal/infra/persistence/postgres"
	"seismicore/internal/infra/persistence/sqlite"
	"seismicore/pkg/domain"
)

// StorageDriver selects a persistence backend.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
)

// Shorthand aliases for the domain persistence contracts used throughout the
// service layer.
type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
	Result          = domain.Result
	RulesEngine     = domain.RulesEngine
)

// NewMemoryStore constructs a volatile store bound to the given rules engine.
func NewMemoryStore(engine *domain.RulesEngine) *memory.Store {
	return memory.NewStore(engine)
}

// NewSQLiteStore constructs a SQLite-backed store. An empty path selects the
// default database file in the working directory.
func NewSQLiteStore(path string, engine *domain.RulesEngine) (*sqlite.Store, error) {
	return sqlite.NewStore(path, engine)
}

// NewPostgresStore constructs a PostgreSQL-backed store. An empty DSN selects
// the local default.
func NewPostgresStore(dsn string, engine *domain.RulesEngine) (*postgres.Store, error) {
	return postgres.NewStore(dsn, engine)
}

// OpenPersistentStore selects a backend from SEISMICORE_STORAGE_DRIVER
// (memory, sqlite, or postgres; sqlite when unset). SQLite reads its database
// path from SEISMICORE_SQLITE_PATH and PostgreSQL its DSN from
// SEISMICORE_POSTGRES_DSN.
func OpenPersistentStore(engine *domain.RulesEngine) (domain.PersistentStore, error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("SEISMICORE_STORAGE_DRIVER")))
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("SEISMICORE_POSTGRES_DSN"), engine)
	case StorageSQLite, "":
		return sqlite.NewStore(os.Getenv("SEISMICORE_SQLITE_PATH"), engine)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

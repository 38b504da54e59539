// Package storage arma los repositorios del driver configurado (postgres o
// sqlite) para que cmd/api y cmd/precastctl compartan el mismo cableado.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain/repository"
	"github.com/jhoicas/precast-api/internal/infrastructure/postgres"
	"github.com/jhoicas/precast-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/precast-api/pkg/config"
	"github.com/jhoicas/precast-api/pkg/logger"
)

// Backend repositorios listos para los casos de uso.
type Backend struct {
	Driver     string
	TxRunner   tracking.TxRunner
	Projects   repository.ProjectRepository
	Components repository.OtherComponentRepository
	Ledger     repository.LedgerRepository
	History    repository.StatusHistoryRepository
	Aggregates repository.AggregateRepository

	migrate func(ctx context.Context) ([]string, error)
	close   func()
}

// Open conecta con la base según cfg.Driver. Con AutoMigrate aplica las
// migraciones pendientes antes de devolver.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("storage")

	var b *Backend
	switch cfg.Driver {
	case config.DriverPostgres, "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		b = &Backend{
			Driver:     config.DriverPostgres,
			TxRunner:   postgres.NewTxRunner(pool),
			Projects:   postgres.NewProjectRepository(pool),
			Components: postgres.NewOtherComponentRepository(pool),
			Ledger:     postgres.NewLedgerRepository(pool),
			History:    postgres.NewStatusHistoryRepository(pool),
			Aggregates: postgres.NewAggregateRepository(pool),
			migrate:    func(ctx context.Context) ([]string, error) { return postgres.Migrate(ctx, pool) },
			close:      pool.Close,
		}
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("conexión a SQLite: %w", err)
		}
		b = &Backend{
			Driver:     config.DriverSQLite,
			TxRunner:   sqlite.NewTxRunner(db),
			Projects:   sqlite.NewProjectRepository(db),
			Components: sqlite.NewOtherComponentRepository(db),
			Ledger:     sqlite.NewLedgerRepository(db),
			History:    sqlite.NewStatusHistoryRepository(db),
			Aggregates: sqlite.NewAggregateRepository(db),
			migrate:    func(ctx context.Context) ([]string, error) { return sqlite.Migrate(ctx, db) },
			close:      func() { _ = db.Close() },
		}
	default:
		return nil, fmt.Errorf("driver de base de datos desconocido %q", cfg.Driver)
	}

	log.Info().Str("driver", b.Driver).Msg("base de datos conectada")
	if cfg.AutoMigrate {
		applied, err := b.Migrate(ctx)
		if err != nil {
			b.Close()
			return nil, err
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return b, nil
}

// Migrate aplica las migraciones pendientes del driver.
func (b *Backend) Migrate(ctx context.Context) ([]string, error) {
	applied, err := b.migrate(ctx)
	if err != nil {
		return applied, fmt.Errorf("migrar %s: %w", b.Driver, err)
	}
	return applied, nil
}

// Close libera las conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finpilot-backoffice/internal/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier supports database operations for both pool and transactions
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Ensure interfaces are satisfied (compile-time check)
var _ Querier = (*pgxpool.Pool)(nil)
var _ Querier = (pgx.Tx)(nil)

// TxBeginner abstracts transaction creation so the tenant runner can be
// exercised against a mock pool in tests.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TenantRunner executes work inside a transaction bound to exactly one tenant.
// Every repository operating on tenant-owned tables receives its pgx.Tx from
// here and nowhere else.
type TenantRunner interface {
	RunWithTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx pgx.Tx) error) error
}

type PostgresDB struct {
	pool    *pgxpool.Pool
	begin   TxBeginner
	appRole string
	logger  *slog.Logger
}

var _ TenantRunner = (*PostgresDB)(nil)

func NewPostgresDB(ctx context.Context, logger *slog.Logger, cfg *config.PostgresConfig) (*PostgresDB, error) {
	err := RunMigrations(cfg.URL, cfg.MigrationsPath)
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	logger.Info("Connected to PostgreSQL")

	return &PostgresDB{
		pool:    pool,
		begin:   pool,
		appRole: cfg.AppRole,
		logger:  logger,
	}, nil
}

func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *PostgresDB) Close() {
	db.pool.Close()
	db.logger.Info("Closed PostgreSQL connection")
}

// RunWithTenant runs fn in a transaction restricted to a single tenant's rows,
// rolling back on error or panic.
//
// Two statements run before any caller code: the transaction switches to the
// restricted application role, then sets the transaction-local
// app.current_tenant_id variable that the row-level security policies key on.
// The role switch comes first so the variable write already executes under the
// restricted privileges. The connecting role owns the tables and would bypass
// row security; the app role has DML grants only.
//
// A failure in either scope-setting statement aborts the transaction and is
// returned wrapped; errors from fn are returned unchanged.
func (db *PostgresDB) RunWithTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := db.begin.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tenant transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx) // Attempt rollback on panic
			panic(r)
		}
	}()

	// SET ROLE takes an identifier, not a bind parameter
	if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+pgx.Identifier{db.appRole}.Sanitize()); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			db.logger.Error("Failed to roll back after role switch failure", "error", rbErr)
		}
		return fmt.Errorf("failed to assume restricted role %q: %w", db.appRole, err)
	}

	if _, err := tx.Exec(ctx, "SELECT set_config('app.current_tenant_id', $1, true)", tenantID.String()); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			db.logger.Error("Failed to roll back after tenant binding failure", "error", rbErr)
		}
		return fmt.Errorf("failed to bind tenant %s to transaction: %w", tenantID, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// Package postgres provides PostgreSQL implementations of the domain
// repositories. Invoice and bank transaction repositories execute every
// statement on a tenant-scoped transaction supplied by the caller; the tenant
// repository is the single deliberate exception and runs on the shared pool.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/finpilot-backoffice/internal/platform/persistence"
)

// TenantRepository implements the tenant.Repository interface for PostgreSQL
type TenantRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTenantRepository creates a new PostgreSQL tenant repository. Tenant
// operations are platform-level and intentionally not tenant-scoped, so the
// repository holds the pool directly.
func NewTenantRepository(logger *slog.Logger, db *persistence.PostgresDB) tenant.Repository {
	return &TenantRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new tenant
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, query, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create tenant", "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return nil
}

// List returns all tenants ordered by creation time
func (r *TenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	query := `
		SELECT id, name, created_at
		FROM tenants
		ORDER BY created_at
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list tenants", "error", err)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*tenant.Tenant, 0)
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tenants: %w", err)
	}

	return tenants, nil
}

package tenant

import (
	"context"
)

// Repository defines tenant persistence operations.
//
// Tenant creation and listing are platform-level operations that run outside
// any single tenant's isolation boundary, so this is the one repository that
// operates on the shared pool instead of a tenant-scoped transaction.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
}

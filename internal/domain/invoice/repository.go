package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines invoice persistence operations.
//
// Every method takes the tenant-bound pgx.Tx produced by the tenant runner as
// an explicit parameter; there is no way to call into invoice storage outside
// a scoped transaction. Row-level security restricts each statement to the
// bound tenant's rows.
type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, inv *Invoice) error
	List(ctx context.Context, tx pgx.Tx) ([]*Invoice, error)
	ListByStatus(ctx context.Context, tx pgx.Tx, status Status) ([]*Invoice, error)
	GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Invoice, error)

	// UpdateStatus moves an invoice to a new lifecycle state. Status is the
	// only mutable invoice field.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status Status) error
}

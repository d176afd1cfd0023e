package banktxn

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines bank transaction persistence operations.
//
// Every method takes the tenant-bound pgx.Tx produced by the tenant runner as
// an explicit parameter, so no call can execute outside a scoped transaction.
// Transactions are created only via bulk import and never mutated afterwards.
type Repository interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, txns []*Transaction) error
	List(ctx context.Context, tx pgx.Tx) ([]*Transaction, error)
	GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Transaction, error)
}

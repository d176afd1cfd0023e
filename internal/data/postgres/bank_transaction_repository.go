package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BankTransactionRepository implements the banktxn.Repository interface for
// PostgreSQL. All methods run on a tenant-scoped transaction.
type BankTransactionRepository struct {
	logger *slog.Logger
}

// NewBankTransactionRepository creates a new PostgreSQL bank transaction repository
func NewBankTransactionRepository(logger *slog.Logger) banktxn.Repository {
	return &BankTransactionRepository{logger: logger}
}

// CreateBatch inserts an imported batch inside one tenant-scoped transaction.
// The caller's transaction boundary makes the batch all-or-nothing.
func (r *BankTransactionRepository) CreateBatch(ctx context.Context, tx pgx.Tx, txns []*banktxn.Transaction) error {
	query := `
		INSERT INTO bank_transactions (id, tenant_id, amount, currency, description, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, txn := range txns {
		_, err := tx.Exec(ctx, query,
			txn.ID,
			txn.TenantID,
			txn.Amount.String(),
			txn.Currency,
			txn.Description,
			txn.PostedAt,
			txn.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert bank transaction", "id", txn.ID.String(), "error", err)
			return fmt.Errorf("failed to insert bank transactions: %w", err)
		}
	}

	return nil
}

// List returns all bank transactions visible to the bound tenant
func (r *BankTransactionRepository) List(ctx context.Context, tx pgx.Tx) ([]*banktxn.Transaction, error) {
	query := `
		SELECT id, tenant_id, amount, currency, description, posted_at, created_at
		FROM bank_transactions
		ORDER BY posted_at, created_at
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bank transactions", "error", err)
		return nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]*banktxn.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bank transactions: %w", err)
	}

	return txns, nil
}

// GetByID retrieves one bank transaction visible to the bound tenant
func (r *BankTransactionRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*banktxn.Transaction, error) {
	query := `
		SELECT id, tenant_id, amount, currency, description, posted_at, created_at
		FROM bank_transactions
		WHERE id = $1
	`

	txn, err := scanTransaction(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, banktxn.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get bank transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get bank transaction: %w", err)
	}

	return txn, nil
}

func scanTransaction(row pgx.Row) (*banktxn.Transaction, error) {
	var (
		txn    banktxn.Transaction
		amount string
	)
	if err := row.Scan(&txn.ID, &txn.TenantID, &amount, &txn.Currency, &txn.Description, &txn.PostedAt, &txn.CreatedAt); err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a decimal: %w", amount, err)
	}
	txn.Amount = amt

	return &txn, nil
}

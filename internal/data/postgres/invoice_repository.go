package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL.
// Every method runs on the tenant-bound transaction passed by the caller; the
// row-level security policy on the invoices table restricts each statement to
// the bound tenant's rows. Amounts travel as text to keep them exact.
type InvoiceRepository struct {
	logger *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository
func NewInvoiceRepository(logger *slog.Logger) invoice.Repository {
	return &InvoiceRepository{logger: logger}
}

// Create stores a new invoice inside the given tenant-scoped transaction
func (r *InvoiceRepository) Create(ctx context.Context, tx pgx.Tx, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		inv.ID,
		inv.TenantID,
		inv.Amount.String(),
		inv.Description,
		string(inv.Status),
		inv.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", "error", err)
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// List returns all invoices visible to the bound tenant
func (r *InvoiceRepository) List(ctx context.Context, tx pgx.Tx) ([]*invoice.Invoice, error) {
	query := `
		SELECT id, tenant_id, amount, description, status, created_at
		FROM invoices
		ORDER BY created_at
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoices", "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// ListByStatus returns the bound tenant's invoices in the given status
func (r *InvoiceRepository) ListByStatus(ctx context.Context, tx pgx.Tx, status invoice.Status) ([]*invoice.Invoice, error) {
	query := `
		SELECT id, tenant_id, amount, description, status, created_at
		FROM invoices
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := tx.Query(ctx, query, string(status))
	if err != nil {
		r.logger.Error("Failed to list invoices by status", "status", status, "error", err)
		return nil, fmt.Errorf("failed to list invoices by status: %w", err)
	}
	defer rows.Close()

	return scanInvoices(rows)
}

// GetByID retrieves one invoice. Rows owned by other tenants are invisible to
// the bound transaction, so cross-tenant lookups return ErrInvoiceNotFound.
func (r *InvoiceRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT id, tenant_id, amount, description, status, created_at
		FROM invoices
		WHERE id = $1
	`

	inv, err := scanInvoice(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound{InvoiceID: id}
		}
		r.logger.Error("Failed to get invoice", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return inv, nil
}

// UpdateStatus moves an invoice to a new lifecycle state
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status invoice.Status) error {
	query := `
		UPDATE invoices
		SET status = $1
		WHERE id = $2
	`

	result, err := tx.Exec(ctx, query, string(status), id)
	if err != nil {
		r.logger.Error("Failed to update invoice status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound{InvoiceID: id}
	}

	return nil
}

func scanInvoices(rows pgx.Rows) ([]*invoice.Invoice, error) {
	invoices := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", err)
	}
	return invoices, nil
}

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var (
		inv    invoice.Invoice
		amount string
		status string
	)
	if err := row.Scan(&inv.ID, &inv.TenantID, &amount, &inv.Description, &status, &inv.CreatedAt); err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a decimal: %w", amount, err)
	}
	inv.Amount = amt
	inv.Status = invoice.Status(status)

	return &inv, nil
}

package service

import (
	"context"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/google/uuid"
)

// TenantService defines the interface for tenant operations
type TenantService interface {
	// CreateTenant provisions a new tenant with the given display name
	CreateTenant(ctx context.Context, name string) (*tenant.Tenant, error)

	// ListTenants returns all tenants
	ListTenants(ctx context.Context) ([]*tenant.Tenant, error)
}

// InvoiceService defines the interface for invoice operations
type InvoiceService interface {
	// CreateInvoice creates an open invoice owned by the given tenant.
	// The amount arrives as a string and must parse as an exact decimal.
	CreateInvoice(ctx context.Context, tenantID uuid.UUID, amount string, description string) (*invoice.Invoice, error)

	// ListInvoices returns the tenant's invoices
	ListInvoices(ctx context.Context, tenantID uuid.UUID) ([]*invoice.Invoice, error)
}

// BankTransactionService defines the interface for bank transaction operations
type BankTransactionService interface {
	// ImportTransactions normalizes the raw payload and stores the batch
	// atomically. Returns the created transactions, or ErrInvalidImport when
	// the payload is empty or malformed.
	ImportTransactions(ctx context.Context, tenantID uuid.UUID, payload []byte) ([]*banktxn.Transaction, error)

	// ListTransactions returns the tenant's bank transactions
	ListTransactions(ctx context.Context, tenantID uuid.UUID) ([]*banktxn.Transaction, error)
}

// ReconciliationService defines the interface for reconciliation operations
type ReconciliationService interface {
	// Reconcile runs one scoring pass over the tenant's open invoices and bank
	// transactions. Returns an informational result when the tenant has not
	// enough data; engine failures surface as ErrCalculation or
	// ErrEngineUnavailable.
	Reconcile(ctx context.Context, tenantID uuid.UUID) (reconciliation.RunResult, error)

	// ExplainMatch produces a deterministic confidence explanation for one
	// invoice/transaction pair owned by the tenant
	ExplainMatch(ctx context.Context, tenantID, invoiceID, transactionID uuid.UUID) (reconciliation.Explanation, error)
}

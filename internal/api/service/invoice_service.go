package service

import (
	"context"

	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceServiceImpl implements the InvoiceService interface. Every database
// access runs inside a tenant-scoped transaction opened by the runner.
type InvoiceServiceImpl struct {
	runner      persistence.TenantRunner
	invoiceRepo invoice.Repository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(runner persistence.TenantRunner, invoiceRepo invoice.Repository) InvoiceService {
	return &InvoiceServiceImpl{
		runner:      runner,
		invoiceRepo: invoiceRepo,
	}
}

// CreateInvoice creates an open invoice owned by the given tenant
func (s *InvoiceServiceImpl) CreateInvoice(ctx context.Context, tenantID uuid.UUID, amount string, description string) (*invoice.Invoice, error) {
	inv, err := invoice.NewInvoice(tenantID, amount, description)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		return s.invoiceRepo.Create(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// ListInvoices returns the tenant's invoices
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context, tenantID uuid.UUID) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice

	err := s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		invoices, err = s.invoiceRepo.List(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

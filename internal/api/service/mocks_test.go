package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockTenantRunner stands in for the tenant-scoped transaction runner. When no
// error is stubbed it invokes the unit of work with a nil transaction, which
// the repository mocks accept.
type MockTenantRunner struct {
	mock.Mock
}

func (m *MockTenantRunner) RunWithTenant(ctx context.Context, tenantID uuid.UUID, fn func(pgx.Tx) error) error {
	args := m.Called(ctx, tenantID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

// MockTenantRepository mocks tenant.Repository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	args := m.Called(ctx)
	if tenants, ok := args.Get(0).([]*tenant.Tenant); ok {
		return tenants, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockInvoiceRepository mocks invoice.Repository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, tx pgx.Tx, inv *invoice.Invoice) error {
	args := m.Called(ctx, tx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) List(ctx context.Context, tx pgx.Tx) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, tx)
	if invoices, ok := args.Get(0).([]*invoice.Invoice); ok {
		return invoices, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceRepository) ListByStatus(ctx context.Context, tx pgx.Tx, status invoice.Status) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, tx, status)
	if invoices, ok := args.Get(0).([]*invoice.Invoice); ok {
		return invoices, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, tx, id)
	if inv, ok := args.Get(0).(*invoice.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status invoice.Status) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

// MockBankTransactionRepository mocks banktxn.Repository
type MockBankTransactionRepository struct {
	mock.Mock
}

func (m *MockBankTransactionRepository) CreateBatch(ctx context.Context, tx pgx.Tx, txns []*banktxn.Transaction) error {
	args := m.Called(ctx, tx, txns)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) List(ctx context.Context, tx pgx.Tx) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx, tx)
	if txns, ok := args.Get(0).([]*banktxn.Transaction); ok {
		return txns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBankTransactionRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*banktxn.Transaction, error) {
	args := m.Called(ctx, tx, id)
	if txn, ok := args.Get(0).(*banktxn.Transaction); ok {
		return txn, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEngine mocks scoring.Engine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Score(ctx context.Context, invoices []reconciliation.InvoiceInput, transactions []reconciliation.TransactionInput) ([]reconciliation.Candidate, error) {
	args := m.Called(ctx, invoices, transactions)
	if candidates, ok := args.Get(0).([]reconciliation.Candidate); ok {
		return candidates, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPublisher mocks producers.MessagePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

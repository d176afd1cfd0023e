package handler

import (
	"context"
	"log/slog"
	"os"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// MockTenantService mocks service.TenantService
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) CreateTenant(ctx context.Context, name string) (*tenant.Tenant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *MockTenantService) ListTenants(ctx context.Context) ([]*tenant.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tenant.Tenant), args.Error(1)
}

// MockInvoiceService mocks service.InvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, amount string, description string) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

// MockBankTransactionService mocks service.BankTransactionService
type MockBankTransactionService struct {
	mock.Mock
}

func (m *MockBankTransactionService) ImportTransactions(ctx context.Context, tenantID uuid.UUID, payload []byte) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx, tenantID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktxn.Transaction), args.Error(1)
}

func (m *MockBankTransactionService) ListTransactions(ctx context.Context, tenantID uuid.UUID) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktxn.Transaction), args.Error(1)
}

// MockReconciliationService mocks service.ReconciliationService
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, tenantID uuid.UUID) (reconciliation.RunResult, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(reconciliation.RunResult), args.Error(1)
}

func (m *MockReconciliationService) ExplainMatch(ctx context.Context, tenantID, invoiceID, transactionID uuid.UUID) (reconciliation.Explanation, error) {
	args := m.Called(ctx, tenantID, invoiceID, transactionID)
	return args.Get(0).(reconciliation.Explanation), args.Error(1)
}

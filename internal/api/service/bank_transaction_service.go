package service

import (
	"context"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BankTransactionServiceImpl implements the BankTransactionService interface
type BankTransactionServiceImpl struct {
	runner          persistence.TenantRunner
	transactionRepo banktxn.Repository
}

// NewBankTransactionService creates a new bank transaction service
func NewBankTransactionService(runner persistence.TenantRunner, transactionRepo banktxn.Repository) BankTransactionService {
	return &BankTransactionServiceImpl{
		runner:          runner,
		transactionRepo: transactionRepo,
	}
}

// ImportTransactions normalizes the raw payload and stores the whole batch in
// one tenant-scoped transaction, so a failing row discards the entire import.
func (s *BankTransactionServiceImpl) ImportTransactions(ctx context.Context, tenantID uuid.UUID, payload []byte) ([]*banktxn.Transaction, error) {
	records, err := banktxn.NormalizeImport(payload)
	if err != nil {
		return nil, err
	}

	txns := make([]*banktxn.Transaction, 0, len(records))
	for _, rec := range records {
		txns = append(txns, banktxn.FromImportRecord(tenantID, rec))
	}

	err = s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		return s.transactionRepo.CreateBatch(ctx, tx, txns)
	})
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// ListTransactions returns the tenant's bank transactions
func (s *BankTransactionServiceImpl) ListTransactions(ctx context.Context, tenantID uuid.UUID) ([]*banktxn.Transaction, error) {
	var txns []*banktxn.Transaction

	err := s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		txns, err = s.transactionRepo.List(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return txns, nil
}

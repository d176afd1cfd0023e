package service

import (
	"context"
	"errors"
	"testing"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBankTransactionService_ImportTransactions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	payload := []byte(`{
		"transactions": [
			{"amount": 149.99, "date": "2024-03-01T00:00:00Z", "description": "POS PAYMENT"},
			{"amount": "-20.50", "currency": "EUR", "date": "2024-03-02T00:00:00Z", "description": "ACH DEBIT"}
		]
	}`)

	t.Run("Success", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		mockRunner.On("RunWithTenant", ctx, tenantID).Return(nil).Once()
		mockRepo.On("CreateBatch", ctx, mock.Anything, mock.MatchedBy(func(txns []*banktxn.Transaction) bool {
			return len(txns) == 2 &&
				txns[0].TenantID == tenantID &&
				txns[1].TenantID == tenantID &&
				txns[0].Currency == "USD" &&
				txns[1].Currency == "EUR"
		})).Return(nil).Once()

		txns, err := svc.ImportTransactions(ctx, tenantID, payload)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("149.99")))
		assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("-20.50")))
		mockRunner.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StringifiedArrayPayload", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		stringified := []byte(`{"transactions": "[{\"amount\": 10, \"date\": \"2024-03-01T00:00:00Z\", \"description\": \"x\"}]"}`)

		mockRunner.On("RunWithTenant", ctx, tenantID).Return(nil).Once()
		mockRepo.On("CreateBatch", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		txns, err := svc.ImportTransactions(ctx, tenantID, stringified)
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		txns, err := svc.ImportTransactions(ctx, tenantID, []byte(`{"transactions": []}`))
		assert.Nil(t, txns)
		var invalidErr banktxn.ErrInvalidImport
		assert.ErrorAs(t, err, &invalidErr)
		mockRunner.AssertNotCalled(t, "RunWithTenant", mock.Anything, mock.Anything)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		repoErr := errors.New("batch insert failed")
		mockRunner.On("RunWithTenant", ctx, tenantID).Return(nil).Once()
		mockRepo.On("CreateBatch", ctx, mock.Anything, mock.Anything).Return(repoErr).Once()

		txns, err := svc.ImportTransactions(ctx, tenantID, payload)
		assert.Nil(t, txns)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestBankTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		expected := []*banktxn.Transaction{
			{ID: uuid.New(), TenantID: tenantID, Currency: "USD"},
		}
		mockRunner.On("RunWithTenant", ctx, tenantID).Return(nil).Once()
		mockRepo.On("List", ctx, mock.Anything).Return(expected, nil).Once()

		txns, err := svc.ListTransactions(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, expected, txns)
	})

	t.Run("ScopeFailure", func(t *testing.T) {
		mockRunner := new(MockTenantRunner)
		mockRepo := new(MockBankTransactionRepository)
		svc := NewBankTransactionService(mockRunner, mockRepo)

		scopeErr := errors.New("failed to bind tenant scope")
		mockRunner.On("RunWithTenant", ctx, tenantID).Return(scopeErr).Once()

		txns, err := svc.ListTransactions(ctx, tenantID)
		assert.Nil(t, txns)
		assert.ErrorIs(t, err, scopeErr)
		mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

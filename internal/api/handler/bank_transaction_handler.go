package handler

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/finpilot-backoffice/internal/api/service"
	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/gin-gonic/gin"
)

// BankTransactionHandler handles HTTP requests for bank transaction operations
type BankTransactionHandler struct {
	transactionService service.BankTransactionService
	logger             *slog.Logger
}

// NewBankTransactionHandler creates a new bank transaction handler
func NewBankTransactionHandler(logger *slog.Logger, transactionService service.BankTransactionService) *BankTransactionHandler {
	return &BankTransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Import handles a bulk bank transaction import. The raw body passes through
// untouched because the accepted payload has three shapes and the service
// resolves them in one place.
func (h *BankTransactionHandler) Import(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read import payload", "tenant_id", tenantID.String(), "error", err)
		RespondBadRequest(c, "Failed to read request body")
		return
	}

	txns, err := h.transactionService.ImportTransactions(c.Request.Context(), tenantID, payload)
	if err != nil {
		var invalidErr banktxn.ErrInvalidImport
		if errors.As(err, &invalidErr) {
			RespondBadRequest(c, invalidErr.Error())
			return
		}
		h.logger.Error("Failed to import bank transactions", "tenant_id", tenantID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]BankTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondCreated(c, ImportResponse{
		Imported:     len(txns),
		Transactions: responses,
	})
}

// List returns the tenant's bank transactions
func (h *BankTransactionHandler) List(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Error("Failed to list bank transactions", "tenant_id", tenantID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]BankTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondOK(c, responses)
}

// mapTransactionToResponse maps a bank transaction entity to a response DTO
func mapTransactionToResponse(txn *banktxn.Transaction) BankTransactionResponse {
	return BankTransactionResponse{
		ID:          txn.ID.String(),
		TenantID:    txn.TenantID.String(),
		Amount:      txn.Amount.String(),
		Currency:    txn.Currency,
		Description: txn.Description,
		PostedAt:    txn.PostedAt.Format(time.RFC3339),
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
	}
}

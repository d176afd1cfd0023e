package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finpilot-backoffice/internal/api/service"
	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationHandler handles HTTP requests for reconciliation operations
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Reconcile runs one scoring pass for the tenant. An engine that answers with
// an application error is a 500; an engine that cannot be reached is a 503.
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), tenantID)
	if err != nil {
		var calcErr reconciliation.ErrCalculation
		if errors.As(err, &calcErr) {
			h.logger.Error("Scoring engine reported a calculation error", "tenant_id", tenantID.String(), "error", err)
			RespondWithError(c, http.StatusInternalServerError, "CALCULATION_ENGINE_ERROR", "Calculation engine error")
			return
		}

		var unavailableErr reconciliation.ErrEngineUnavailable
		if errors.As(err, &unavailableErr) {
			h.logger.Error("Scoring engine unreachable", "tenant_id", tenantID.String(), "error", err)
			RespondServiceUnavailable(c, "Reconciliation service unavailable")
			return
		}

		h.logger.Error("Reconciliation run failed", "tenant_id", tenantID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, result)
}

// Explain produces a deterministic confidence explanation for one
// invoice/transaction pair identified by query parameters
func (h *ReconciliationHandler) Explain(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	invoiceID, err := uuid.Parse(c.Query("invoice_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing invoice_id")
		return
	}

	transactionID, err := uuid.Parse(c.Query("transaction_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing transaction_id")
		return
	}

	explanation, err := h.reconciliationService.ExplainMatch(c.Request.Context(), tenantID, invoiceID, transactionID)
	if err != nil {
		var invoiceNotFound invoice.ErrInvoiceNotFound
		if errors.As(err, &invoiceNotFound) {
			RespondNotFound(c, "Invoice not found")
			return
		}

		var transactionNotFound banktxn.ErrTransactionNotFound
		if errors.As(err, &transactionNotFound) {
			RespondNotFound(c, "Bank transaction not found")
			return
		}

		h.logger.Error("Failed to explain match",
			"tenant_id", tenantID.String(),
			"invoice_id", invoiceID.String(),
			"transaction_id", transactionID.String(),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, explanation)
}

package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/finpilot-backoffice/internal/api/service"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoice operations
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Create handles creation of a new invoice under the tenant in the path
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), tenantID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, invoice.ErrInvalidAmount) {
			RespondBadRequest(c, "Invoice amount must be a decimal number")
			return
		}
		h.logger.Error("Failed to create invoice", "tenant_id", tenantID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapInvoiceToResponse(inv))
}

// List returns the tenant's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Error("Failed to list invoices", "tenant_id", tenantID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, mapInvoiceToResponse(inv))
	}

	RespondOK(c, responses)
}

// mapInvoiceToResponse maps an invoice entity to an invoice response DTO
func mapInvoiceToResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID.String(),
		TenantID:    inv.TenantID.String(),
		Amount:      inv.Amount.String(),
		Description: inv.Description,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}
}

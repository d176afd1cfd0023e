package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/finpilot-backoffice/internal/api/service"
	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles HTTP requests for tenant operations
type TenantHandler struct {
	tenantService service.TenantService
	logger        *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(logger *slog.Logger, tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logger:        logger,
	}
}

// Create handles provisioning of a new tenant
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.tenantService.CreateTenant(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, tenant.ErrEmptyName) {
			RespondBadRequest(c, "Tenant name cannot be empty")
			return
		}
		h.logger.Error("Failed to create tenant", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTenantToResponse(t))
}

// List returns all tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tenants", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		responses = append(responses, mapTenantToResponse(t))
	}

	RespondOK(c, responses)
}

// mapTenantToResponse maps a tenant entity to a tenant response DTO
func mapTenantToResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// parseTenantID extracts and validates the tenantId path parameter. On
// failure it writes the 400 response and reports false.
func parseTenantID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("tenantId")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return id, true
}

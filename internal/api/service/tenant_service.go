package service

import (
	"context"

	"github.com/finpilot-backoffice/internal/domain/tenant"
)

// TenantServiceImpl implements the TenantService interface
type TenantServiceImpl struct {
	tenantRepo tenant.Repository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo tenant.Repository) TenantService {
	return &TenantServiceImpl{
		tenantRepo: tenantRepo,
	}
}

// CreateTenant provisions a new tenant with the given display name
func (s *TenantServiceImpl) CreateTenant(ctx context.Context, name string) (*tenant.Tenant, error) {
	t, err := tenant.NewTenant(name)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// ListTenants returns all tenants
func (s *TenantServiceImpl) ListTenants(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.tenantRepo.List(ctx)
}

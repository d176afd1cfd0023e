package service

import (
	"context"
	"errors"
	"testing"

	"github.com/finpilot-backoffice/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTenantService_CreateTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		svc := NewTenantService(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(tn *tenant.Tenant) bool {
			return tn.Name == "Globex GmbH" && tn.ID != uuid.Nil
		})).Return(nil).Once()

		created, err := svc.CreateTenant(ctx, "Globex GmbH")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "Globex GmbH", created.Name)
		assert.NotEqual(t, uuid.Nil, created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmptyName", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		svc := NewTenantService(mockRepo)

		created, err := svc.CreateTenant(ctx, "")
		assert.Nil(t, created)
		assert.ErrorIs(t, err, tenant.ErrEmptyName)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		svc := NewTenantService(mockRepo)

		repoErr := errors.New("db down")
		mockRepo.On("Create", ctx, mock.Anything).Return(repoErr).Once()

		created, err := svc.CreateTenant(ctx, "Globex GmbH")
		assert.Nil(t, created)
		assert.ErrorIs(t, err, repoErr)
		mockRepo.AssertExpectations(t)
	})
}

func TestTenantService_ListTenants(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		svc := NewTenantService(mockRepo)

		expected := []*tenant.Tenant{
			{ID: uuid.New(), Name: "Globex GmbH"},
			{ID: uuid.New(), Name: "Initech Ltd"},
		}
		mockRepo.On("List", ctx).Return(expected, nil).Once()

		tenants, err := svc.ListTenants(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, tenants)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		svc := NewTenantService(mockRepo)

		repoErr := errors.New("db down")
		mockRepo.On("List", ctx).Return(nil, repoErr).Once()

		tenants, err := svc.ListTenants(ctx)
		assert.Nil(t, tenants)
		assert.ErrorIs(t, err, repoErr)
		mockRepo.AssertExpectations(t)
	})
}

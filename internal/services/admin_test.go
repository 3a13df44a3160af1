package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

func TestAdminTenants(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(storage.NewMemoryStore(), zap.NewNop())

	tenant, err := svc.CreateTenant(ctx, "  Northwind Logistics ")
	require.NoError(t, err)
	assert.Equal(t, "Northwind Logistics", tenant.Name)
	assert.True(t, tenant.IsActive)

	_, err = svc.CreateTenant(ctx, "Northwind Logistics")
	assert.True(t, IsKind(err, KindConflict))
	_, err = svc.CreateTenant(ctx, " ")
	assert.True(t, IsKind(err, KindValidation))

	updated, err := svc.SetTenantStatus(ctx, tenant.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.SetTenantStatus(ctx, models.NewID(), true)
	assert.True(t, IsKind(err, KindNotFound))

	tenants, err := svc.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.False(t, tenants[0].IsActive)
}

func TestAdminSystemLogs(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewAdminService(store, zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateSystemLog(ctx, &models.SystemLog{Message: "boom", Method: "GET", URL: "/api/x", StatusCode: 500}))
	}
	logs, err := svc.ListSystemLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	n, err := svc.ClearSystemLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	logs, err = svc.ListSystemLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// logPageSize caps audit listings.
const logPageSize = 100

// AdminService covers superadmin housekeeping: tenants and audit logs.
type AdminService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewAdminService(store storage.Store, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, logger: logger.Named("admin")}
}

func (s *AdminService) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	return s.store.ListTenants(ctx)
}

func (s *AdminService) CreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalid("Tenant name is required.")
	}
	tenant := &models.Tenant{Name: name, IsActive: true}
	if err := s.store.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, Conflict("Tenant already exists.")
		}
		return nil, err
	}
	s.logger.Info("tenant created", zap.String("tenant_id", tenant.ID))
	return tenant, nil
}

func (s *AdminService) SetTenantStatus(ctx context.Context, id string, active bool) (*models.Tenant, error) {
	tenant, err := s.store.GetTenant(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Tenant not found.")
	}
	if err != nil {
		return nil, err
	}
	tenant.IsActive = active
	if err := s.store.UpdateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListSystemLogs returns the most recent error log rows.
func (s *AdminService) ListSystemLogs(ctx context.Context) ([]*models.SystemLog, error) {
	return s.store.ListSystemLogs(ctx, logPageSize)
}

// ClearSystemLogs deletes every error log row.
func (s *AdminService) ClearSystemLogs(ctx context.Context) (int64, error) {
	n, err := s.store.ClearSystemLogs(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("system logs cleared", zap.Int64("deleted", n))
	return n, nil
}

// ListLoginLogs returns the most recent authentication attempts.
func (s *AdminService) ListLoginLogs(ctx context.Context) ([]*models.LoginLog, error) {
	return s.store.ListLoginLogs(ctx, logPageSize)
}

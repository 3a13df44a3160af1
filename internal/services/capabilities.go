package services

import (
	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// Capabilities are the optional external collaborators. Any field may be
// nil; operations that need a missing one answer 503.
type Capabilities struct {
	OTP      OTPStore
	SMS      SMSSender
	Identity auth.IdentityProvider
}

// Status reports which capabilities are configured, for health checks.
func (c Capabilities) Status() map[string]bool {
	return map[string]bool{
		"otp":      c.OTP != nil,
		"sms":      c.SMS != nil,
		"identity": c.Identity != nil,
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

// IsStaff reports whether the actor administers the platform.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSuperAdmin
}

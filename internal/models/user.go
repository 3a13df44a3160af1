package models

import (
	"strings"
	"time"
)

// Role constants
const (
	RoleCustomer   = "customer"
	RoleDriver     = "driver"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Auth provider constants
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFirebase = "firebase"
)

// User is any account: customers post loads, drivers post trucks, admins book.
type User struct {
	ID           string  `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	Name         string  `json:"name" bson:"name"`
	Email        string  `json:"email" bson:"email" gorm:"uniqueIndex"`
	Phone        string  `json:"phone" bson:"phone" gorm:"index"`
	PasswordHash string  `json:"-" bson:"password,omitempty"`
	Role         string  `json:"role" bson:"role" gorm:"default:customer"`
	AuthProvider string  `json:"authProvider" bson:"authProvider" gorm:"default:local"`
	GoogleID     string  `json:"-" bson:"googleId,omitempty"`
	FirebaseUID  *string `json:"-" bson:"firebaseUid,omitempty" gorm:"uniqueIndex"`
	CompanyName  string  `json:"companyName,omitempty" bson:"companyName,omitempty"`
	IsVerified   bool    `json:"isVerified" bson:"isVerified"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Normalize lowercases the email so uniqueness is case-insensitive.
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = strings.TrimSpace(u.Phone)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	if u.AuthProvider == "" {
		u.AuthProvider = ProviderLocal
	}
}

// HasPassword reports whether the account can sign in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserSummary is the public projection used in listings.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
	Role  string `json:"role,omitempty"`
}

// Summary projects the user for listings.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

// IsValidRole checks role against the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleDriver, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

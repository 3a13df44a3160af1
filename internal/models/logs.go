package models

import "time"

// Login attempt outcomes
const (
	LoginStatusSuccess = "success"
	LoginStatusFailure = "failure"
)

// Login failure reasons
const (
	LoginReasonMissingCredentials  = "missing_credentials"
	LoginReasonInvalidCredentials  = "invalid_credentials"
	LoginReasonMissingToken        = "missing_token"
	LoginReasonInvalidToken        = "invalid_token"
	LoginReasonFirebaseUnavailable = "firebase_unavailable"
)

// LoginLog is an audit row per authentication attempt.
type LoginLog struct {
	ID        string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	UserID    string `json:"userId,omitempty" bson:"user,omitempty" gorm:"index"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Provider  string `json:"provider" bson:"provider"`
	Status    string `json:"status" bson:"status"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty"`
	IP        string `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SystemLog is written by the central error handler for unexpected failures.
type SystemLog struct {
	ID         string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	Message    string `json:"message" bson:"message"`
	Method     string `json:"method" bson:"method"`
	URL        string `json:"url" bson:"url"`
	StatusCode int    `json:"statusCode" bson:"statusCode"`
	UserID     string `json:"userId,omitempty" bson:"user,omitempty"`
	TenantID   string `json:"tenantId,omitempty" bson:"tenant,omitempty"`
	IP         string `json:"ip,omitempty" bson:"ip,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/klb1963/yachtpricer/models"
)

const RequestIDKey = "X-Request-ID"

// Actor identifies the workflow user performing an operation
type Actor struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	OrgID  uint            `json:"org_id"`
}

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

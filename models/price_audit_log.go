package models

import (
	"time"

	"github.com/klb1963/yachtpricer/utils"

	"gorm.io/gorm"
)

// Audit action constants
const (
	PriceAuditActionSubmit  = "submit"
	PriceAuditActionApprove = "approve"
	PriceAuditActionReject  = "reject"
)

// PriceAuditLog records one row per decision transition. Rows are append
// only: never mutated, never deleted.
type PriceAuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	DecisionID uint           `gorm:"not null;index:idx_price_audit_decision_id" json:"decision_id"`
	Action     string         `gorm:"size:32;not null;index:idx_price_audit_action" json:"action"`
	FromStatus DecisionStatus `gorm:"size:32;not null" json:"from_status"`
	ToStatus   DecisionStatus `gorm:"size:32;not null" json:"to_status"`
	ActorID    uint           `gorm:"not null;index:idx_price_audit_actor_id" json:"actor_id"`
	Comment    *string        `gorm:"type:text" json:"comment,omitempty"`
	RequestID  *string        `gorm:"size:255" json:"request_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`

	Decision *PricingDecision `gorm:"foreignKey:DecisionID;references:ID" json:"decision,omitempty"`
	Actor    *User            `gorm:"foreignKey:ActorID;references:ID" json:"actor,omitempty"`
}

// TableName returns the table name for the model
func (PriceAuditLog) TableName() string {
	return "price_audit_log"
}

// BeforeCreate is called before creating a new record
func (a *PriceAuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// PriceAuditLogFilter represents filter criteria for audit entries
type PriceAuditLogFilter struct {
	DecisionID *uint   `json:"decision_id,omitempty"`
	ActorID    *uint   `json:"actor_id,omitempty"`
	Action     *string `json:"action,omitempty"`
}

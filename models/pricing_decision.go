package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/utils"
)

// DecisionStatus represents the status of a pricing decision
type DecisionStatus string

const (
	DecisionStatusDraft     DecisionStatus = "draft"
	DecisionStatusSubmitted DecisionStatus = "submitted"
	DecisionStatusApproved  DecisionStatus = "approved"
	DecisionStatusRejected  DecisionStatus = "rejected"
)

// String returns the string representation of the status
func (s DecisionStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s DecisionStatus) Valid() bool {
	switch s {
	case DecisionStatusDraft, DecisionStatusSubmitted,
		DecisionStatusApproved, DecisionStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DecisionStatus
func (s *DecisionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = DecisionStatus(v)
	case []byte:
		*s = DecisionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DecisionStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for DecisionStatus
func (s DecisionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid DecisionStatus: %s", s)
	}
	return string(s), nil
}

// CanTransitionTo checks if the decision can move to the given status.
// Role gates are enforced separately by the policy component; this encodes
// the raw edge set of the state machine.
func (s DecisionStatus) CanTransitionTo(newStatus DecisionStatus) bool {
	switch s {
	case DecisionStatusDraft:
		return newStatus == DecisionStatusSubmitted
	case DecisionStatusRejected:
		return newStatus == DecisionStatusSubmitted
	case DecisionStatusSubmitted:
		return newStatus == DecisionStatusApproved ||
			newStatus == DecisionStatusRejected
	default:
		return false
	}
}

// PricingDecision tracks one discount/price proposal per (yacht, week).
// Rows are created lazily on first write and never deleted; history lives
// in the audit log, not in destructive updates.
//
// Exactly one of DiscountPct/FinalPrice was user-edited last; the other is
// a derived display value recomputed from BasePrice. Callers declare which
// one via PriceInput rather than the row remembering it.
type PricingDecision struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_pricing_decisions_uuid" json:"uuid"`
	YachtID     uint           `gorm:"not null;uniqueIndex:uk_pricing_decisions_key,priority:1" json:"yacht_id"`
	WeekStart   time.Time      `gorm:"not null;uniqueIndex:uk_pricing_decisions_key,priority:2" json:"week_start"`
	BasePrice   float64        `gorm:"not null" json:"base_price"`
	DiscountPct *float64       `json:"discount_pct,omitempty"`
	FinalPrice  *float64       `json:"final_price,omitempty"`
	Status      DecisionStatus `gorm:"size:32;not null;default:'draft'" json:"status"`
	ApprovedBy  *uint          `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time     `json:"approved_at,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`

	Yacht    *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
	Approver *User  `gorm:"foreignKey:ApprovedBy;references:ID" json:"approver,omitempty"`
}

// TableName returns the table name for the model
func (PricingDecision) TableName() string {
	return "pricing_decisions"
}

// BeforeCreate is called before creating a new record
func (d *PricingDecision) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DecisionStatusDraft
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	d.WeekStart = utils.TruncateToUTCDate(d.WeekStart)
	return nil
}

// BeforeUpdate is called before updating a record
func (d *PricingDecision) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	d.UpdatedAt = &now
	return nil
}

// IsEditable checks if proposal numbers may still change
func (d *PricingDecision) IsEditable() bool {
	return d.Status == DecisionStatusDraft || d.Status == DecisionStatusRejected
}

// GetStatusDisplayName returns a human-readable status name
func (d *PricingDecision) GetStatusDisplayName() string {
	switch d.Status {
	case DecisionStatusDraft:
		return "Draft"
	case DecisionStatusSubmitted:
		return "Submitted"
	case DecisionStatusApproved:
		return "Approved"
	case DecisionStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// PricingDecisionFilter represents filter criteria for pricing decisions
type PricingDecisionFilter struct {
	ID        *uint           `json:"id,omitempty"`
	YachtID   *uint           `json:"yacht_id,omitempty"`
	WeekStart *time.Time      `json:"week_start,omitempty"`
	Status    *DecisionStatus `json:"status,omitempty"`
}

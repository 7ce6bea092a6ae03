// Package models contains domain entities and business models for the pricing system
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/utils"
)

// HullType represents the hull configuration of a vessel
type HullType string

const (
	HullTypeMonohull  HullType = "monohull"
	HullTypeCatamaran HullType = "catamaran"
	HullTypeTrimaran  HullType = "trimaran"
	HullTypePower     HullType = "power"
)

// String returns the string representation of the hull type
func (h HullType) String() string {
	return string(h)
}

// Valid checks if the hull type is valid
func (h HullType) Valid() bool {
	switch h {
	case HullTypeMonohull, HullTypeCatamaran, HullTypeTrimaran, HullTypePower:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for HullType
func (h *HullType) Scan(value any) error {
	if value == nil {
		*h = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*h = HullType(v)
	case []byte:
		*h = HullType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into HullType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for HullType
func (h HullType) Value() (driver.Value, error) {
	if h == "" {
		return nil, nil
	}
	if !h.Valid() {
		return nil, fmt.Errorf("invalid HullType: %s", h)
	}
	return string(h), nil
}

// Yacht represents a vessel in the managed fleet. The catalog owns these
// rows; the pricing core reads them.
type Yacht struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_yachts_uuid" json:"uuid"`
	OrgID          uint       `gorm:"not null;index:idx_yachts_org_id" json:"org_id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	HullType       HullType   `gorm:"size:32;not null;default:'monohull'" json:"hull_type"`
	LengthFt       float64    `gorm:"not null" json:"length_ft"`
	BuildYear      int        `gorm:"not null" json:"build_year"`
	Cabins         int        `gorm:"not null" json:"cabins"`
	Heads          int        `gorm:"not null" json:"heads"`
	BaseLocation   string     `gorm:"size:255" json:"base_location"`
	BasePrice      float64    `gorm:"not null" json:"base_price"`
	MaxDiscountPct float64    `gorm:"not null;default:0" json:"max_discount_pct"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`

	// Relations
	Owners   []YachtOwner   `gorm:"foreignKey:YachtID" json:"owners,omitempty"`
	Managers []YachtManager `gorm:"foreignKey:YachtID" json:"managers,omitempty"`
}

// TableName returns the table name for the model
func (Yacht) TableName() string {
	return "yachts"
}

// BeforeCreate is called before creating a new record
func (y *Yacht) BeforeCreate(tx *gorm.DB) error {
	if y.UUID == uuid.Nil {
		y.UUID = uuid.New()
	}
	if y.CreatedAt.IsZero() {
		y.CreatedAt = utils.UTCNow()
	}
	return nil
}

// YachtFilter represents filter criteria for yachts
type YachtFilter struct {
	ID       *uint     `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	OrgID    *uint     `json:"org_id,omitempty"`
	Name     *string   `json:"name,omitempty"`
	HullType *HullType `json:"hull_type,omitempty"`
}

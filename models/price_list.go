package models

import (
	"time"

	"github.com/klb1963/yachtpricer/utils"

	"gorm.io/gorm"
)

// PriceListEntry is a manually curated weekly price for a yacht. The
// entry with the latest effective date not after the requested week wins
// over the yacht's static base price.
type PriceListEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	YachtID       uint      `gorm:"not null;index:idx_price_list_yacht_id" json:"yacht_id"`
	EffectiveDate time.Time `gorm:"not null;index:idx_price_list_effective_date" json:"effective_date"`
	Price         float64   `gorm:"not null" json:"price"`
	Currency      string    `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	CreatedAt     time.Time `json:"created_at"`

	Yacht *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
}

// TableName returns the table name for the model
func (PriceListEntry) TableName() string {
	return "price_list_entries"
}

// BeforeCreate is called before creating a new record
func (e *PriceListEntry) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	e.EffectiveDate = utils.TruncateToUTCDate(e.EffectiveDate)
	return nil
}

// PriceListEntryFilter represents filter criteria for price list entries
type PriceListEntryFilter struct {
	YachtID     *uint      `json:"yacht_id,omitempty"`
	EffectiveOn *time.Time `json:"effective_on,omitempty"`
}

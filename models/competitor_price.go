package models

import (
	"time"

	"github.com/klb1963/yachtpricer/utils"

	"gorm.io/gorm"
)

// CompetitorPrice is a persisted acceptance of a scan candidate for a
// specific (yacht, week, source) key. The row set for one key is fully
// replaced on every scan; rows never accumulate across runs.
type CompetitorPrice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	YachtID    uint      `gorm:"not null;index:idx_competitor_prices_key,priority:1" json:"yacht_id"`
	WeekStart  time.Time `gorm:"not null;index:idx_competitor_prices_key,priority:2" json:"week_start"`
	Source     string    `gorm:"size:32;not null;index:idx_competitor_prices_key,priority:3" json:"source"`
	Competitor string    `gorm:"size:255;not null" json:"competitor"`
	ExternalRef string   `gorm:"size:128;index:idx_competitor_prices_external_ref" json:"external_ref"`
	LengthFt   *float64  `json:"length_ft,omitempty"`
	Cabins     *int      `json:"cabins,omitempty"`
	Heads      *int      `json:"heads,omitempty"`
	BuildYear  *int      `json:"build_year,omitempty"`
	Marina     *string   `gorm:"size:255" json:"marina,omitempty"`
	CountryCode *string  `gorm:"size:2" json:"country_code,omitempty"`
	Price      float64   `gorm:"not null" json:"price"`
	Currency   string    `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	CreatedAt  time.Time `json:"created_at"`

	Yacht *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
}

// TableName returns the table name for the model
func (CompetitorPrice) TableName() string {
	return "competitor_prices"
}

// BeforeCreate is called before creating a new record
func (p *CompetitorPrice) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	p.WeekStart = utils.TruncateToUTCDate(p.WeekStart)
	return nil
}

// CompetitorPriceFilter represents filter criteria for competitor prices
type CompetitorPriceFilter struct {
	YachtID     *uint      `json:"yacht_id,omitempty"`
	WeekStart   *time.Time `json:"week_start,omitempty"`
	Source      *string    `json:"source,omitempty"`
	CountryCode *string    `json:"country_code,omitempty"`
	MaxPrice    *float64   `json:"max_price,omitempty"`
}

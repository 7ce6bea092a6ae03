package models

import (
	"time"

	"github.com/klb1963/yachtpricer/utils"

	"gorm.io/gorm"
)

// CompetitorSnapshot is the derived market summary for one (yacht, week,
// source) key: the lowest accepted price and the mean of the three lowest.
// It is recomputed wholesale whenever the underlying CompetitorPrice rows
// change and is never mutated independently.
type CompetitorSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	YachtID    uint      `gorm:"not null;uniqueIndex:uk_competitor_snapshots_key,priority:1" json:"yacht_id"`
	WeekStart  time.Time `gorm:"not null;uniqueIndex:uk_competitor_snapshots_key,priority:2" json:"week_start"`
	Source     string    `gorm:"size:32;not null;uniqueIndex:uk_competitor_snapshots_key,priority:3" json:"source"`
	Top1Price  float64   `gorm:"not null" json:"top1_price"`
	Top3Avg    float64   `gorm:"not null" json:"top3_avg"`
	Currency   string    `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	SampleSize int       `gorm:"not null" json:"sample_size"`
	ScannedAt  time.Time `gorm:"not null" json:"scanned_at"`

	Yacht *Yacht `gorm:"foreignKey:YachtID;references:ID" json:"yacht,omitempty"`
}

// TableName returns the table name for the model
func (CompetitorSnapshot) TableName() string {
	return "competitor_snapshots"
}

// BeforeCreate is called before creating a new record
func (s *CompetitorSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ScannedAt.IsZero() {
		s.ScannedAt = utils.UTCNow()
	}
	s.WeekStart = utils.TruncateToUTCDate(s.WeekStart)
	return nil
}

// CompetitorSnapshotFilter represents filter criteria for snapshots
type CompetitorSnapshotFilter struct {
	YachtID   *uint      `json:"yacht_id,omitempty"`
	WeekStart *time.Time `json:"week_start,omitempty"`
	Source    *string    `json:"source,omitempty"`
}

package models

import (
	"time"

	"github.com/klb1963/yachtpricer/utils"
)

// FilterConfig is a scoped tolerance profile for competitor matching.
// A row belongs to a user (UserID set), to an organization (only OrgID
// set), or is absent entirely, in which case DefaultFilterConfig applies.
// Resolution order when loading: user profile, then org profile, then
// hard defaults.
type FilterConfig struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrgID          uint       `gorm:"not null;index:idx_filter_configs_org_id" json:"org_id"`
	UserID         *uint      `gorm:"index:idx_filter_configs_user_id" json:"user_id,omitempty"`
	LenFtMinus     float64    `gorm:"not null" json:"len_ft_minus"`
	LenFtPlus      float64    `gorm:"not null" json:"len_ft_plus"`
	YearMinus      int        `gorm:"not null" json:"year_minus"`
	YearPlus       int        `gorm:"not null" json:"year_plus"`
	CabinsMinus    int        `gorm:"not null" json:"cabins_minus"`
	CabinsPlus     int        `gorm:"not null" json:"cabins_plus"`
	HeadsMin       int        `gorm:"not null" json:"heads_min"`
	OccupancyMinus int        `gorm:"not null;default:0" json:"occupancy_minus"` // reserved
	OccupancyPlus  int        `gorm:"not null;default:0" json:"occupancy_plus"`  // reserved
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (FilterConfig) TableName() string {
	return "filter_configs"
}

// DefaultFilterConfig returns the hard fallback profile used when neither
// a user- nor an org-scoped row exists.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		LenFtMinus:  utils.DefaultLenFtMinus,
		LenFtPlus:   utils.DefaultLenFtPlus,
		YearMinus:   utils.DefaultYearMinus,
		YearPlus:    utils.DefaultYearPlus,
		CabinsMinus: utils.DefaultCabinsMinus,
		CabinsPlus:  utils.DefaultCabinsPlus,
		HeadsMin:    utils.DefaultHeadsMin,
	}
}

// FilterConfigFilter represents filter criteria for tolerance profiles
type FilterConfigFilter struct {
	OrgID  *uint `json:"org_id,omitempty"`
	UserID *uint `json:"user_id,omitempty"`
}

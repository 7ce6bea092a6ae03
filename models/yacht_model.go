package models

// YachtModel caches vendor model metadata, keyed by the vendor's model id.
// Vessels listed without a length fall back to their model's length here.
type YachtModel struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	VendorID int64   `gorm:"not null;uniqueIndex:uk_yacht_models_vendor_id" json:"vendor_id"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	// LengthFt may still carry the vendor's raw unit ambiguity; readers
	// normalize it like any other vendor length.
	LengthFt *float64 `json:"length_ft,omitempty"`
}

// TableName returns the table name for the model
func (YachtModel) TableName() string {
	return "yacht_models"
}

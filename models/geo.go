package models

// Reference geography cached locally from the provider catalogue. The
// collector resolves a candidate's country through these tables,
// preferring a location's direct country link over the region-derived one.

// Country is a charter country
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:2;not null;uniqueIndex:uk_countries_code" json:"code"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// TableName returns the table name for the model
func (Country) TableName() string {
	return "countries"
}

// Region is a charter region belonging to a country
type Region struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	VendorID  int64  `gorm:"not null;uniqueIndex:uk_regions_vendor_id" json:"vendor_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	CountryID uint   `gorm:"not null;index:idx_regions_country_id" json:"country_id"`

	Country *Country `gorm:"foreignKey:CountryID;references:ID" json:"country,omitempty"`
}

// TableName returns the table name for the model
func (Region) TableName() string {
	return "regions"
}

// Location is a marina or base. CountryID is an optional direct link; when
// absent the country resolves through the region.
type Location struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	VendorID  int64  `gorm:"not null;uniqueIndex:uk_locations_vendor_id" json:"vendor_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	RegionID  *uint  `gorm:"index:idx_locations_region_id" json:"region_id,omitempty"`
	CountryID *uint  `gorm:"index:idx_locations_country_id" json:"country_id,omitempty"`

	Region  *Region  `gorm:"foreignKey:RegionID;references:ID" json:"region,omitempty"`
	Country *Country `gorm:"foreignKey:CountryID;references:ID" json:"country,omitempty"`
}

// TableName returns the table name for the model
func (Location) TableName() string {
	return "locations"
}

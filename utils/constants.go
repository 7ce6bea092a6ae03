package utils

import "time"

// Filter tolerance defaults applied when neither a user-scoped nor an
// organization-scoped profile exists.
const (
	DefaultLenFtMinus  = 3.0
	DefaultLenFtPlus   = 3.0
	DefaultYearMinus   = 2
	DefaultYearPlus    = 2
	DefaultCabinsMinus = 1
	DefaultCabinsPlus  = 1
	DefaultHeadsMin    = 0
)

// Scan constants
const (
	// CharterWeekDays is the length of one charter period.
	CharterWeekDays = 7

	// DefaultScanSource identifies the external inventory provider rows
	// written by the scan pipeline.
	DefaultScanSource = "nausys"

	EURCurrency = "EUR"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// HTTP constants
const (
	// CORSMaxAge is how long browsers may cache preflight responses, in seconds.
	CORSMaxAge = 3600
)

// Reference cache TTLs
const (
	// ModelLengthCacheTTL bounds staleness of the vendor model-length table.
	ModelLengthCacheTTL = 24 * time.Hour

	// LocationCountryCacheTTL bounds staleness of location->country links.
	LocationCountryCacheTTL = 24 * time.Hour
)

package dto

// RunScanRequest represents the payload to start a competitor scan for a
// yacht and charter week.
type RunScanRequest struct {
	YachtID       uint    `json:"yacht_id" validate:"required"`
	WeekStart     string  `json:"week_start" validate:"required,datetime=2006-01-02"`
	Source        string  `json:"source" validate:"omitempty,max=50"`
	LocationHints []int64 `json:"location_hints" validate:"omitempty,dive,gt=0"`
	Username      string  `json:"username" validate:"required"`
	Password      string  `json:"password" validate:"required"`
}

// ReasonCountItem is one rejection reason with its occurrence count.
type ReasonCountItem struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// RunScanResponse summarizes the outcome of a competitor scan.
type RunScanResponse struct {
	Message    string            `json:"message"`
	YachtID    uint              `json:"yacht_id"`
	WeekStart  string            `json:"week_start"`
	Source     string            `json:"source"`
	Accepted   int               `json:"accepted"`
	Rejected   int               `json:"rejected"`
	Skipped    int               `json:"skipped"`
	TopReasons []ReasonCountItem `json:"top_reasons"`
	Operators  int               `json:"operators"`
	Failed     int               `json:"failed_operators"`
	Vessels    int               `json:"vessels"`
	Offers     int               `json:"offers"`
	Malformed  int               `json:"malformed"`
}

// FilterConfigResponse is the resolved similarity filter for the caller.
type FilterConfigResponse struct {
	Scope       string  `json:"scope"`
	LenFtMinus  float64 `json:"len_ft_minus"`
	LenFtPlus   float64 `json:"len_ft_plus"`
	YearMinus   int     `json:"year_minus"`
	YearPlus    int     `json:"year_plus"`
	CabinsMinus int     `json:"cabins_minus"`
	CabinsPlus  int     `json:"cabins_plus"`
	HeadsMin    int     `json:"heads_min"`
}

// UpdateFilterConfigRequest represents the payload to save a similarity
// filter at user or org scope.
type UpdateFilterConfigRequest struct {
	Scope       string  `json:"scope" validate:"required,oneof=user org"`
	LenFtMinus  float64 `json:"len_ft_minus" validate:"gte=0"`
	LenFtPlus   float64 `json:"len_ft_plus" validate:"gte=0"`
	YearMinus   int     `json:"year_minus" validate:"gte=0"`
	YearPlus    int     `json:"year_plus" validate:"gte=0"`
	CabinsMinus int     `json:"cabins_minus" validate:"gte=0"`
	CabinsPlus  int     `json:"cabins_plus" validate:"gte=0"`
	HeadsMin    int     `json:"heads_min" validate:"gte=0"`
}

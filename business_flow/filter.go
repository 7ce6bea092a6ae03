package businessflow

import (
	"strings"

	"github.com/klb1963/yachtpricer/models"
)

// Rejection reason labels, in check order
const (
	ReasonHullType = "hull_type"
	ReasonLength   = "length"
	ReasonCabins   = "cabins"
	ReasonHeads    = "heads"
	ReasonYear     = "year"
	ReasonLocation = "location"
)

// FilterResult is the verdict for one candidate
type FilterResult struct {
	Accepted bool     `json:"accepted"`
	Reasons  []string `json:"reasons,omitempty"`
}

// FilterEngine decides whether a competitor candidate is comparable to the
// target yacht. It is a pure value: the target and tolerances are fixed at
// construction and never mutated, so every Passes call with the same input
// yields the same verdict regardless of ordering or concurrency.
type FilterEngine struct {
	target models.Yacht
	cfg    models.FilterConfig
}

// NewFilterEngine creates a filter engine for one target yacht and a resolved
// tolerance profile
func NewFilterEngine(target models.Yacht, cfg models.FilterConfig) *FilterEngine {
	return &FilterEngine{target: target, cfg: cfg}
}

// Passes runs all comparability checks against the candidate. Every check is
// evaluated even after a mismatch so the result carries the complete reason
// list, appended in fixed order. A candidate missing a value skips that
// check, except hull type where absence counts as a mismatch.
func (f *FilterEngine) Passes(c CompetitorCandidate) FilterResult {
	var reasons []string

	if c.HullType == nil || !strings.EqualFold(*c.HullType, f.target.HullType.String()) {
		reasons = append(reasons, ReasonHullType)
	}

	if c.LengthFt != nil {
		min := f.target.LengthFt - f.cfg.LenFtMinus
		max := f.target.LengthFt + f.cfg.LenFtPlus
		if *c.LengthFt < min || *c.LengthFt > max {
			reasons = append(reasons, ReasonLength)
		}
	}

	if c.Cabins != nil {
		min := f.target.Cabins - f.cfg.CabinsMinus
		max := f.target.Cabins + f.cfg.CabinsPlus
		if *c.Cabins < min || *c.Cabins > max {
			reasons = append(reasons, ReasonCabins)
		}
	}

	// Heads is a floor against the target, not a window.
	if f.cfg.HeadsMin > 0 && c.Heads != nil {
		if *c.Heads < f.target.Heads {
			reasons = append(reasons, ReasonHeads)
		}
	}

	if c.BuildYear != nil {
		min := f.target.BuildYear - f.cfg.YearMinus
		max := f.target.BuildYear + f.cfg.YearPlus
		if *c.BuildYear < min || *c.BuildYear > max {
			reasons = append(reasons, ReasonYear)
		}
	}

	if f.target.BaseLocation != "" && c.Marina != nil {
		if !strings.Contains(strings.ToLower(*c.Marina), strings.ToLower(f.target.BaseLocation)) {
			reasons = append(reasons, ReasonLocation)
		}
	}

	return FilterResult{
		Accepted: len(reasons) == 0,
		Reasons:  reasons,
	}
}

package businessflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/klb1963/yachtpricer/app/services"
)

// CompetitorCandidate is a transient market observation produced by the
// collector. It is never persisted; accepted candidates become
// models.CompetitorPrice rows. Optional fields are pointers because the
// provider omits them freely.
type CompetitorCandidate struct {
	Label       string   `json:"label"`
	ExternalRef string   `json:"external_ref"`
	HullType    *string  `json:"hull_type,omitempty"`
	LengthFt    *float64 `json:"length_ft,omitempty"`
	Cabins      *int     `json:"cabins,omitempty"`
	Heads       *int     `json:"heads,omitempty"`
	BuildYear   *int     `json:"build_year,omitempty"`
	Marina      *string  `json:"marina,omitempty"`
	CountryCode *string  `json:"country_code,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
}

// CollectStats reports what the collector saw and what it dropped
type CollectStats struct {
	Operators       int `json:"operators"`
	FailedOperators int `json:"failed_operators"`
	Vessels         int `json:"vessels"`
	Offers          int `json:"offers"`
	Malformed       int `json:"malformed"`
}

// Collector acquires competitor candidates from the external inventory
type Collector interface {
	// Collect fetches open charter offers for the window and returns them as
	// normalized candidates. locationHints restricts operators to those whose
	// service locations intersect the hint set; empty means all operators.
	Collect(ctx context.Context, creds services.ProviderCredentials, periodFrom, periodTo time.Time, locationHints []int64) ([]CompetitorCandidate, CollectStats, error)
}

// CollectorImpl implements Collector against an InventoryProvider
type CollectorImpl struct {
	provider        services.InventoryProvider
	refs            services.ReferenceService
	pageSize        int
	operatorTimeout time.Duration
}

// NewCollector creates a new candidate collector
func NewCollector(provider services.InventoryProvider, refs services.ReferenceService, pageSize int, operatorTimeout time.Duration) Collector {
	if pageSize <= 0 {
		pageSize = 200
	}
	if operatorTimeout <= 0 {
		operatorTimeout = 30 * time.Second
	}
	return &CollectorImpl{
		provider:        provider,
		refs:            refs,
		pageSize:        pageSize,
		operatorTimeout: operatorTimeout,
	}
}

// Collect fetches open charter offers for the window and returns them as
// normalized candidates.
func (c *CollectorImpl) Collect(ctx context.Context, creds services.ProviderCredentials, periodFrom, periodTo time.Time, locationHints []int64) ([]CompetitorCandidate, CollectStats, error) {
	var stats CollectStats

	operators, err := c.provider.Operators(ctx, creds)
	if err != nil {
		log.Printf("Collector: operator listing failed: %v", err)
		return nil, stats, NewBusinessError("PROVIDER_OPERATORS_FAILED", "Failed to list inventory operators", ErrProviderUnavailable)
	}

	operators = filterOperators(operators, locationHints)
	if len(operators) == 0 {
		return nil, stats, NewBusinessError("PROVIDER_NO_OPERATORS", "No inventory operators match the scan scope", ErrProviderNoOperators)
	}
	stats.Operators = len(operators)

	// One sequential pass over operators builds the vessel lookup. A slow or
	// broken operator is skipped and counted; losing the whole universe is
	// handled below.
	vessels := make(map[int64]services.CharterVessel)
	for _, op := range operators {
		opCtx, cancel := context.WithTimeout(ctx, c.operatorTimeout)
		fleet, err := c.provider.Vessels(opCtx, creds, op.ID)
		cancel()
		if err != nil {
			stats.FailedOperators++
			log.Printf("Collector: operator %d (%s) vessel listing failed: %v", op.ID, op.Name, err)
			continue
		}
		for _, v := range fleet {
			vessels[v.ID] = v
		}
	}
	if len(vessels) == 0 {
		return nil, stats, NewBusinessError("PROVIDER_NO_VESSELS", "No vessels visible in any operator fleet", ErrProviderNoVessels)
	}
	stats.Vessels = len(vessels)

	c.backfillLengths(ctx, vessels)

	var offers []services.AvailabilityOffer
	for page := 1; ; page++ {
		batch, err := c.provider.OpenAvailability(ctx, creds, periodFrom, periodTo, page, c.pageSize)
		if err != nil {
			log.Printf("Collector: availability page %d failed: %v", page, err)
			return nil, stats, NewBusinessError("PROVIDER_AVAILABILITY_FAILED", "Failed to list open availability", ErrProviderUnavailable)
		}
		offers = append(offers, batch...)
		if len(batch) < c.pageSize {
			break
		}
	}
	stats.Offers = len(offers)

	candidates := make([]CompetitorCandidate, 0, len(offers))
	for _, offer := range offers {
		price, err := parseVendorPrice(offer.Price)
		if err != nil {
			stats.Malformed++
			continue
		}

		vessel, known := vessels[offer.VesselID]
		candidate := CompetitorCandidate{
			ExternalRef: fmt.Sprintf("%d:%s-%s", offer.VesselID, offer.PeriodFrom, offer.PeriodTo),
			Price:       price,
			Currency:    offer.Currency,
		}
		if known {
			candidate.Label = vessel.Name
		}

		// Availability metadata wins over the catalogue lookup.
		candidate.LengthFt = pickFloat(offer.Length, vessel.Length)
		candidate.Cabins = pickInt(offer.Cabins, vessel.Cabins)
		candidate.Heads = pickInt(offer.Heads, vessel.Heads)
		candidate.BuildYear = pickInt(offer.BuildYear, vessel.BuildYear)
		if hull := pickHull(offer.HullType, vessel.HullType); hull != "" {
			candidate.HullType = &hull
		}
		if candidate.LengthFt != nil {
			normalized := NormalizeLengthFt(*candidate.LengthFt)
			candidate.LengthFt = &normalized
		}

		locationID := offer.LocationID
		if locationID == nil && known {
			locationID = vessel.BaseID
		}
		if locationID != nil {
			if name, err := c.refs.LocationName(ctx, *locationID); err == nil {
				candidate.Marina = name
			}
			if country, err := c.refs.CountryForLocation(ctx, *locationID); err == nil && country != nil {
				candidate.CountryCode = &country.Code
			}
		}

		candidates = append(candidates, candidate)
	}

	return candidates, stats, nil
}

// backfillLengths fills missing vessel lengths from the cached model table
func (c *CollectorImpl) backfillLengths(ctx context.Context, vessels map[int64]services.CharterVessel) {
	for id, v := range vessels {
		if v.Length != nil || v.ModelID == nil {
			continue
		}
		length, err := c.refs.ModelLengthFt(ctx, *v.ModelID)
		if err != nil {
			log.Printf("Collector: model length lookup failed for model %d: %v", *v.ModelID, err)
			continue
		}
		if length != nil {
			v.Length = length
			vessels[id] = v
		}
	}
}

// filterOperators keeps operators whose service locations intersect the hint
// set. An empty hint set keeps everything.
func filterOperators(operators []services.CharterOperator, hints []int64) []services.CharterOperator {
	if len(hints) == 0 {
		return operators
	}
	hintSet := make(map[int64]struct{}, len(hints))
	for _, h := range hints {
		hintSet[h] = struct{}{}
	}
	var kept []services.CharterOperator
	for _, op := range operators {
		for _, loc := range op.LocationIDs {
			if _, ok := hintSet[loc]; ok {
				kept = append(kept, op)
				break
			}
		}
	}
	return kept
}

// parseVendorPrice parses the provider's price string. Both "12345.67" and
// the European "12.345,67" form occur in the wild.
func parseVendorPrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", raw, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %q", raw)
	}
	return price, nil
}

func pickFloat(primary, fallback *float64) *float64 {
	if primary != nil {
		return primary
	}
	return fallback
}

func pickInt(primary, fallback *int) *int {
	if primary != nil {
		return primary
	}
	return fallback
}

func pickHull(primary, fallback string) string {
	if primary != "" {
		return strings.ToLower(primary)
	}
	return strings.ToLower(fallback)
}

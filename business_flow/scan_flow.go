package businessflow

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/app/services"
	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	"github.com/klb1963/yachtpricer/utils"
)

var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "competitor_scans_total",
			Help: "Total number of competitor scans by outcome",
		},
		[]string{"outcome"},
	)

	scanCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "competitor_scan_candidates_total",
			Help: "Total number of scan candidates by verdict",
		},
		[]string{"verdict"},
	)
)

// ScanRequest describes one competitor scan for a (yacht, week) pair
type ScanRequest struct {
	YachtID       uint
	WeekStart     time.Time
	Source        string
	Credentials   services.ProviderCredentials
	LocationHints []int64
	Actor         *Actor
}

// ReasonCount pairs a rejection reason with how many candidates it hit
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// ScanResult summarizes one finished scan
type ScanResult struct {
	YachtID    uint          `json:"yacht_id"`
	WeekStart  time.Time     `json:"week_start"`
	Source     string        `json:"source"`
	Accepted   int           `json:"accepted"`
	Rejected   int           `json:"rejected"`
	Skipped    int           `json:"skipped"`
	TopReasons []ReasonCount `json:"top_reasons"`
	Stats      CollectStats  `json:"stats"`
}

// ScanFlow orchestrates collection, filtering and persistence of competitor
// prices for one (yacht, week) key
type ScanFlow interface {
	RunScan(ctx context.Context, req ScanRequest) (*ScanResult, error)
}

// ScanFlowImpl implements ScanFlow
type ScanFlowImpl struct {
	yachtRepo        repository.YachtRepository
	filterConfigRepo repository.FilterConfigRepository
	priceRepo        repository.CompetitorPriceRepository
	snapshotRepo     repository.CompetitorSnapshotRepository
	collector        Collector
	db               *gorm.DB
}

// NewScanFlow creates a new scan flow
func NewScanFlow(
	yachtRepo repository.YachtRepository,
	filterConfigRepo repository.FilterConfigRepository,
	priceRepo repository.CompetitorPriceRepository,
	snapshotRepo repository.CompetitorSnapshotRepository,
	collector Collector,
	db *gorm.DB,
) ScanFlow {
	return &ScanFlowImpl{
		yachtRepo:        yachtRepo,
		filterConfigRepo: filterConfigRepo,
		priceRepo:        priceRepo,
		snapshotRepo:     snapshotRepo,
		collector:        collector,
		db:               db,
	}
}

// RunScan collects candidates for the week, filters them against the target
// yacht and replaces the stored competitor set and its snapshot in one
// transaction. A scan that cannot see the market fails loudly; it never
// leaves the previous result half-overwritten.
func (s *ScanFlowImpl) RunScan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	yacht, err := s.yachtRepo.ByID(ctx, req.YachtID)
	if err != nil {
		return nil, NewBusinessError("YACHT_LOOKUP_FAILED", "Failed to look up yacht", err)
	}
	if yacht == nil {
		return nil, NewBusinessError("YACHT_NOT_FOUND", "Yacht not found", ErrYachtNotFound)
	}

	weekStart := utils.CharterWeekStart(req.WeekStart)
	source := req.Source
	if source == "" {
		source = utils.DefaultScanSource
	}

	var actorID *uint
	if req.Actor != nil {
		actorID = &req.Actor.UserID
	}
	cfg, err := s.filterConfigRepo.Resolve(ctx, yacht.OrgID, actorID)
	if err != nil {
		return nil, NewBusinessError("FILTER_CONFIG_RESOLVE_FAILED", "Failed to resolve filter config", err)
	}

	candidates, stats, err := s.collector.Collect(ctx, req.Credentials, weekStart, weekStart.AddDate(0, 0, utils.CharterWeekDays), req.LocationHints)
	if err != nil {
		scansTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	engine := NewFilterEngine(*yacht, cfg)

	var accepted []*models.CompetitorPrice
	var prices []float64
	reasonCounts := make(map[string]int)
	var reasonOrder []string
	rejected := 0

	for _, candidate := range candidates {
		result := engine.Passes(candidate)
		if !result.Accepted {
			rejected++
			for _, reason := range result.Reasons {
				if reasonCounts[reason] == 0 {
					reasonOrder = append(reasonOrder, reason)
				}
				reasonCounts[reason]++
			}
			continue
		}

		currency := candidate.Currency
		if currency == "" {
			currency = utils.EURCurrency
		}
		accepted = append(accepted, &models.CompetitorPrice{
			YachtID:     yacht.ID,
			WeekStart:   weekStart,
			Source:      source,
			Competitor:  candidate.Label,
			ExternalRef: candidate.ExternalRef,
			LengthFt:    candidate.LengthFt,
			Cabins:      candidate.Cabins,
			Heads:       candidate.Heads,
			BuildYear:   candidate.BuildYear,
			Marina:      candidate.Marina,
			CountryCode: candidate.CountryCode,
			Price:       candidate.Price,
			Currency:    currency,
		})
		prices = append(prices, candidate.Price)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.priceRepo.DeleteForKey(txCtx, yacht.ID, weekStart, source); err != nil {
			return err
		}
		if err := s.priceRepo.SaveBatch(txCtx, accepted); err != nil {
			return err
		}

		top1, top3Avg, ok := AggregatePrices(prices)
		if !ok {
			return s.snapshotRepo.DeleteForKey(txCtx, yacht.ID, weekStart, source)
		}
		return s.snapshotRepo.Upsert(txCtx, &models.CompetitorSnapshot{
			YachtID:    yacht.ID,
			WeekStart:  weekStart,
			Source:     source,
			Top1Price:  top1,
			Top3Avg:    top3Avg,
			Currency:   utils.EURCurrency,
			SampleSize: len(prices),
			ScannedAt:  utils.UTCNow(),
		})
	})
	if err != nil {
		scansTotal.WithLabelValues("failure").Inc()
		return nil, NewBusinessError("SCAN_PERSIST_FAILED", "Failed to persist scan result", err)
	}

	scansTotal.WithLabelValues("success").Inc()
	scanCandidatesTotal.WithLabelValues("accepted").Add(float64(len(accepted)))
	scanCandidatesTotal.WithLabelValues("rejected").Add(float64(rejected))
	scanCandidatesTotal.WithLabelValues("skipped").Add(float64(stats.Malformed))

	log.Printf("Scan finished for yacht %d week %s: %d accepted, %d rejected, %d skipped (%d operators, %d failed)",
		yacht.ID, weekStart.Format("2006-01-02"), len(accepted), rejected, stats.Malformed, stats.Operators, stats.FailedOperators)

	return &ScanResult{
		YachtID:    yacht.ID,
		WeekStart:  weekStart,
		Source:     source,
		Accepted:   len(accepted),
		Rejected:   rejected,
		Skipped:    stats.Malformed,
		TopReasons: topReasons(reasonCounts, reasonOrder),
		Stats:      stats,
	}, nil
}

// topReasons orders rejection reasons by count descending, ties broken by
// first occurrence during the scan.
func topReasons(counts map[string]int, order []string) []ReasonCount {
	out := make([]ReasonCount, 0, len(order))
	for _, reason := range order {
		out = append(out, ReasonCount{Reason: reason, Count: counts[reason]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

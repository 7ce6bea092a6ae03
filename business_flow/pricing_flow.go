package businessflow

import (
	"context"
	"time"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	"github.com/klb1963/yachtpricer/utils"
)

// PriceInputKind discriminates which half of a price edit is authoritative
type PriceInputKind string

const (
	PriceInputUnset    PriceInputKind = "unset"
	PriceInputDiscount PriceInputKind = "discount"
	PriceInputFinal    PriceInputKind = "final"
)

// PriceInput is the tagged price edit: the caller states explicitly whether
// the discount percent or the final price is the edited value. The other half
// is always derived, never guessed from which fields happen to be set.
type PriceInput struct {
	Kind        PriceInputKind `json:"kind"`
	DiscountPct float64        `json:"discount_pct,omitempty"`
	FinalPrice  float64        `json:"final_price,omitempty"`
}

// PricingRow is one line of the weekly comparison table
type PricingRow struct {
	Yacht       *models.Yacht              `json:"yacht"`
	WeekStart   time.Time                  `json:"week_start"`
	BasePrice   float64                    `json:"base_price"`
	Snapshot    *models.CompetitorSnapshot `json:"snapshot,omitempty"`
	Decision    *models.PricingDecision    `json:"decision,omitempty"`
	Permissions Capabilities               `json:"permissions"`
}

// PricingFlow resolves effective prices and builds the comparison table
type PricingFlow interface {
	// ResolveEffectivePrice returns the price the decision math starts from:
	// the latest curated price list entry effective on or before the week,
	// falling back to the yacht's static base price.
	ResolveEffectivePrice(ctx context.Context, yachtID uint, weekStart time.Time) (float64, error)
	// GetRows returns the comparison table for the week, one row per yacht
	// the actor may view.
	GetRows(ctx context.Context, weekStart time.Time, actor Actor) ([]PricingRow, error)
}

// PricingFlowImpl implements PricingFlow
type PricingFlowImpl struct {
	yachtRepo     repository.YachtRepository
	userRepo      repository.UserRepository
	priceListRepo repository.PriceListRepository
	snapshotRepo  repository.CompetitorSnapshotRepository
	decisionRepo  repository.PricingDecisionRepository
}

// NewPricingFlow creates a new pricing flow
func NewPricingFlow(
	yachtRepo repository.YachtRepository,
	userRepo repository.UserRepository,
	priceListRepo repository.PriceListRepository,
	snapshotRepo repository.CompetitorSnapshotRepository,
	decisionRepo repository.PricingDecisionRepository,
) PricingFlow {
	return &PricingFlowImpl{
		yachtRepo:     yachtRepo,
		userRepo:      userRepo,
		priceListRepo: priceListRepo,
		snapshotRepo:  snapshotRepo,
		decisionRepo:  decisionRepo,
	}
}

// ResolveEffectivePrice returns the price the decision math starts from
func (s *PricingFlowImpl) ResolveEffectivePrice(ctx context.Context, yachtID uint, weekStart time.Time) (float64, error) {
	weekStart = utils.CharterWeekStart(weekStart)

	entry, err := s.priceListRepo.LatestOnOrBefore(ctx, yachtID, weekStart)
	if err != nil {
		return 0, NewBusinessError("PRICE_LIST_LOOKUP_FAILED", "Failed to look up price list", err)
	}
	if entry != nil {
		return entry.Price, nil
	}

	yacht, err := s.yachtRepo.ByID(ctx, yachtID)
	if err != nil {
		return 0, NewBusinessError("YACHT_LOOKUP_FAILED", "Failed to look up yacht", err)
	}
	if yacht == nil {
		return 0, NewBusinessError("YACHT_NOT_FOUND", "Yacht not found", ErrYachtNotFound)
	}

	return yacht.BasePrice, nil
}

// GetRows returns the comparison table for the week
func (s *PricingFlowImpl) GetRows(ctx context.Context, weekStart time.Time, actor Actor) ([]PricingRow, error) {
	weekStart = utils.CharterWeekStart(weekStart)

	user, err := s.userRepo.ByID(ctx, actor.UserID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	yachts, err := s.yachtRepo.ListByOrg(ctx, user.OrgID)
	if err != nil {
		return nil, NewBusinessError("YACHT_LIST_FAILED", "Failed to list yachts", err)
	}

	rows := make([]PricingRow, 0, len(yachts))
	for _, yacht := range yachts {
		caps, err := s.capabilitiesFor(ctx, user, yacht.ID)
		if err != nil {
			return nil, err
		}
		if !caps.CanView {
			continue
		}

		basePrice, err := s.ResolveEffectivePrice(ctx, yacht.ID, weekStart)
		if err != nil {
			return nil, err
		}

		snapshot, err := s.snapshotRepo.ByKey(ctx, yacht.ID, weekStart, utils.DefaultScanSource)
		if err != nil {
			return nil, NewBusinessError("SNAPSHOT_LOOKUP_FAILED", "Failed to look up snapshot", err)
		}

		decision, err := s.decisionRepo.ByYachtAndWeek(ctx, yacht.ID, weekStart)
		if err != nil {
			return nil, NewBusinessError("DECISION_LOOKUP_FAILED", "Failed to look up decision", err)
		}

		rows = append(rows, PricingRow{
			Yacht:       yacht,
			WeekStart:   weekStart,
			BasePrice:   basePrice,
			Snapshot:    snapshot,
			Decision:    decision,
			Permissions: caps,
		})
	}

	return rows, nil
}

// capabilitiesFor evaluates the policy for one yacht, fetching the actor's
// link rows fresh. Never cached across requests.
func (s *PricingFlowImpl) capabilitiesFor(ctx context.Context, user *models.User, yachtID uint) (Capabilities, error) {
	managerLink, err := s.yachtRepo.ManagerLink(ctx, yachtID, user.ID)
	if err != nil {
		return Capabilities{}, NewBusinessError("MANAGER_LINK_LOOKUP_FAILED", "Failed to look up manager link", err)
	}
	ownerLink, err := s.yachtRepo.OwnerLink(ctx, yachtID, user.ID)
	if err != nil {
		return Capabilities{}, NewBusinessError("OWNER_LINK_LOOKUP_FAILED", "Failed to look up owner link", err)
	}
	return EvaluatePolicy(user, managerLink, ownerLink), nil
}

// CalcFinalPrice derives the final price from a base price and a discount
// percent, rounded to 2 decimals and floored at zero.
func CalcFinalPrice(basePrice, discountPct float64) float64 {
	final := utils.Round2(basePrice * (1 - discountPct/100))
	if final < 0 {
		return 0
	}
	return final
}

// CalcDiscountPct derives the discount percent from a base and final price,
// rounded to 1 decimal. A non-positive base yields zero.
func CalcDiscountPct(basePrice, finalPrice float64) float64 {
	if basePrice <= 0 {
		return 0
	}
	return utils.Round1((1 - finalPrice/basePrice) * 100)
}

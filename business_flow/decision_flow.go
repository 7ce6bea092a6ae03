package businessflow

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	"github.com/klb1963/yachtpricer/utils"
)

var decisionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pricing_decision_transitions_total",
		Help: "Total number of pricing decision transitions by action",
	},
	[]string{"action"},
)

// DecisionFlow drives the pricing decision lifecycle
type DecisionFlow interface {
	// UpsertDraft creates the (yacht, week) decision lazily as a draft and
	// applies the price input. Edits are allowed in draft and rejected
	// states only.
	UpsertDraft(ctx context.Context, yachtID uint, weekStart time.Time, input PriceInput, actor Actor) (*models.PricingDecision, error)
	// ChangeStatus moves the decision along the state machine. Every
	// successful transition appends exactly one audit row in the same
	// transaction as the status update.
	ChangeStatus(ctx context.Context, yachtID uint, weekStart time.Time, target models.DecisionStatus, input PriceInput, actor Actor, comment *string, metadata *ClientMetadata) (*models.PricingDecision, error)
	// GetAuditTrail lists the decision's transition history, newest first.
	GetAuditTrail(ctx context.Context, yachtID uint, weekStart time.Time, actor Actor, limit, offset int) ([]*models.PriceAuditLog, error)
}

// DecisionFlowImpl implements DecisionFlow
type DecisionFlowImpl struct {
	yachtRepo    repository.YachtRepository
	userRepo     repository.UserRepository
	decisionRepo repository.PricingDecisionRepository
	auditRepo    repository.PriceAuditLogRepository
	pricingFlow  PricingFlow
	db           *gorm.DB
}

// NewDecisionFlow creates a new decision flow
func NewDecisionFlow(
	yachtRepo repository.YachtRepository,
	userRepo repository.UserRepository,
	decisionRepo repository.PricingDecisionRepository,
	auditRepo repository.PriceAuditLogRepository,
	pricingFlow PricingFlow,
	db *gorm.DB,
) DecisionFlow {
	return &DecisionFlowImpl{
		yachtRepo:    yachtRepo,
		userRepo:     userRepo,
		decisionRepo: decisionRepo,
		auditRepo:    auditRepo,
		pricingFlow:  pricingFlow,
		db:           db,
	}
}

// UpsertDraft creates the (yacht, week) decision lazily and applies the edit
func (s *DecisionFlowImpl) UpsertDraft(ctx context.Context, yachtID uint, weekStart time.Time, input PriceInput, actor Actor) (*models.PricingDecision, error) {
	weekStart = utils.CharterWeekStart(weekStart)

	yacht, _, caps, err := s.loadActorContext(ctx, yachtID, actor)
	if err != nil {
		return nil, err
	}
	if !caps.CanEditDraft {
		return nil, NewBusinessError("EDIT_NOT_ALLOWED", "Actor may not edit this yacht's pricing", ErrNotAuthorized)
	}

	decision, err := s.decisionRepo.ByYachtAndWeek(ctx, yacht.ID, weekStart)
	if err != nil {
		return nil, NewBusinessError("DECISION_LOOKUP_FAILED", "Failed to look up decision", err)
	}

	isNew := decision == nil
	if isNew {
		// BasePrice is snapshotted from the resolver at creation time, so a
		// later price list change never silently shifts an open proposal.
		basePrice, err := s.pricingFlow.ResolveEffectivePrice(ctx, yacht.ID, weekStart)
		if err != nil {
			return nil, err
		}
		decision = &models.PricingDecision{
			YachtID:   yacht.ID,
			WeekStart: weekStart,
			BasePrice: basePrice,
			Status:    models.DecisionStatusDraft,
		}
	} else if !decision.IsEditable() {
		return nil, NewBusinessError("DECISION_NOT_EDITABLE", "Decision is not editable in its current status", ErrDecisionNotEditable)
	}

	if err := applyPriceInput(decision, yacht, input); err != nil {
		return nil, err
	}

	if isNew {
		if err := s.decisionRepo.Save(ctx, decision); err != nil {
			return nil, NewBusinessError("DECISION_SAVE_FAILED", "Failed to save decision", err)
		}
	} else {
		if err := s.decisionRepo.Update(ctx, decision); err != nil {
			return nil, NewBusinessError("DECISION_UPDATE_FAILED", "Failed to update decision", err)
		}
	}

	return decision, nil
}

// ChangeStatus moves the decision along the state machine
func (s *DecisionFlowImpl) ChangeStatus(ctx context.Context, yachtID uint, weekStart time.Time, target models.DecisionStatus, input PriceInput, actor Actor, comment *string, metadata *ClientMetadata) (*models.PricingDecision, error) {
	weekStart = utils.CharterWeekStart(weekStart)

	yacht, user, caps, err := s.loadActorContext(ctx, yachtID, actor)
	if err != nil {
		return nil, err
	}

	decision, err := s.decisionRepo.ByYachtAndWeek(ctx, yacht.ID, weekStart)
	if err != nil {
		return nil, NewBusinessError("DECISION_LOOKUP_FAILED", "Failed to look up decision", err)
	}
	if decision == nil {
		return nil, NewBusinessError("DECISION_NOT_FOUND", "No pricing decision exists for this yacht and week", ErrDecisionNotFound)
	}

	if !decision.Status.CanTransitionTo(target) {
		return nil, NewBusinessErrorf("INVALID_TRANSITION", "Cannot move decision from %s to %s", ErrInvalidTransition, decision.Status, target)
	}

	var action string
	switch target {
	case models.DecisionStatusSubmitted:
		action = models.PriceAuditActionSubmit
		if !caps.CanSubmit {
			return nil, NewBusinessError("SUBMIT_NOT_ALLOWED", "Actor may not submit for this yacht", ErrNotAuthorized)
		}
	case models.DecisionStatusApproved:
		action = models.PriceAuditActionApprove
		if !caps.CanApproveOrReject {
			return nil, NewBusinessError("APPROVE_NOT_ALLOWED", "Actor may not approve for this yacht", ErrNotAuthorized)
		}
	case models.DecisionStatusRejected:
		action = models.PriceAuditActionReject
		if !caps.CanApproveOrReject {
			return nil, NewBusinessError("REJECT_NOT_ALLOWED", "Actor may not reject for this yacht", ErrNotAuthorized)
		}
		// Validated before any mutation: a rejection without an explanation
		// is useless to the submitter.
		if comment == nil || strings.TrimSpace(*comment) == "" {
			return nil, NewBusinessError("REJECTION_COMMENT_REQUIRED", "Rejection requires a non-empty comment", ErrRejectionCommentRequired)
		}
	default:
		return nil, NewBusinessErrorf("INVALID_TRANSITION", "Unknown target status %s", ErrInvalidTransition, target)
	}

	fromStatus := decision.Status

	// A submission may carry a fresh edit; both halves of the pair are
	// persisted before the status flips.
	if target == models.DecisionStatusSubmitted && input.Kind != PriceInputUnset && input.Kind != "" {
		if err := applyPriceInput(decision, yacht, input); err != nil {
			return nil, err
		}
	}

	decision.Status = target
	if target == models.DecisionStatusApproved {
		decision.ApprovedBy = &user.ID
		decision.ApprovedAt = utils.UTCNowPtr()
	}

	auditEntry := &models.PriceAuditLog{
		DecisionID: decision.ID,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   target,
		ActorID:    user.ID,
		Comment:    comment,
	}
	if metadata != nil && metadata.RequestID != "" {
		auditEntry.RequestID = &metadata.RequestID
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.decisionRepo.Update(txCtx, decision); err != nil {
			return err
		}
		return s.auditRepo.Save(txCtx, auditEntry)
	})
	if err != nil {
		return nil, NewBusinessError("TRANSITION_PERSIST_FAILED", "Failed to persist status transition", err)
	}

	decisionTransitionsTotal.WithLabelValues(action).Inc()
	log.Printf("Decision %d (yacht %d, week %s): %s -> %s by user %d",
		decision.ID, yacht.ID, weekStart.Format("2006-01-02"), fromStatus, target, user.ID)

	return decision, nil
}

// GetAuditTrail lists the decision's transition history, newest first
func (s *DecisionFlowImpl) GetAuditTrail(ctx context.Context, yachtID uint, weekStart time.Time, actor Actor, limit, offset int) ([]*models.PriceAuditLog, error) {
	weekStart = utils.CharterWeekStart(weekStart)

	yacht, _, caps, err := s.loadActorContext(ctx, yachtID, actor)
	if err != nil {
		return nil, err
	}
	if !caps.CanView {
		return nil, NewBusinessError("VIEW_NOT_ALLOWED", "Actor may not view this yacht's pricing", ErrNotAuthorized)
	}

	decision, err := s.decisionRepo.ByYachtAndWeek(ctx, yacht.ID, weekStart)
	if err != nil {
		return nil, NewBusinessError("DECISION_LOOKUP_FAILED", "Failed to look up decision", err)
	}
	if decision == nil {
		return []*models.PriceAuditLog{}, nil
	}

	entries, err := s.auditRepo.ListByDecision(ctx, decision.ID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("AUDIT_LIST_FAILED", "Failed to list audit trail", err)
	}

	return entries, nil
}

// loadActorContext fetches the yacht, the acting user and the actor's fresh
// capabilities on that yacht.
func (s *DecisionFlowImpl) loadActorContext(ctx context.Context, yachtID uint, actor Actor) (*models.Yacht, *models.User, Capabilities, error) {
	user, err := s.userRepo.ByID(ctx, actor.UserID)
	if err != nil {
		return nil, nil, Capabilities{}, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, nil, Capabilities{}, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	yacht, err := s.yachtRepo.ByID(ctx, yachtID)
	if err != nil {
		return nil, nil, Capabilities{}, NewBusinessError("YACHT_LOOKUP_FAILED", "Failed to look up yacht", err)
	}
	if yacht == nil {
		return nil, nil, Capabilities{}, NewBusinessError("YACHT_NOT_FOUND", "Yacht not found", ErrYachtNotFound)
	}

	managerLink, err := s.yachtRepo.ManagerLink(ctx, yacht.ID, user.ID)
	if err != nil {
		return nil, nil, Capabilities{}, NewBusinessError("MANAGER_LINK_LOOKUP_FAILED", "Failed to look up manager link", err)
	}
	ownerLink, err := s.yachtRepo.OwnerLink(ctx, yacht.ID, user.ID)
	if err != nil {
		return nil, nil, Capabilities{}, NewBusinessError("OWNER_LINK_LOOKUP_FAILED", "Failed to look up owner link", err)
	}

	return yacht, user, EvaluatePolicy(user, managerLink, ownerLink), nil
}

// applyPriceInput applies the tagged edit to the decision, deriving the
// non-edited half of the discount/final pair from the snapshotted base price.
func applyPriceInput(decision *models.PricingDecision, yacht *models.Yacht, input PriceInput) error {
	switch input.Kind {
	case PriceInputUnset, "":
		return nil
	case PriceInputDiscount:
		if input.DiscountPct < 0 || input.DiscountPct > 100 {
			return NewBusinessError("DISCOUNT_OUT_OF_RANGE", "Discount percent must be between 0 and 100", ErrPriceInputOutOfRange)
		}
		if yacht.MaxDiscountPct > 0 && input.DiscountPct > yacht.MaxDiscountPct {
			return NewBusinessErrorf("DISCOUNT_OUT_OF_RANGE", "Discount percent exceeds the yacht's maximum of %.1f", ErrPriceInputOutOfRange, yacht.MaxDiscountPct)
		}
		pct := input.DiscountPct
		final := CalcFinalPrice(decision.BasePrice, pct)
		decision.DiscountPct = &pct
		decision.FinalPrice = &final
		return nil
	case PriceInputFinal:
		if input.FinalPrice < 0 {
			return NewBusinessError("FINAL_PRICE_OUT_OF_RANGE", "Final price must not be negative", ErrPriceInputOutOfRange)
		}
		final := input.FinalPrice
		pct := CalcDiscountPct(decision.BasePrice, final)
		decision.FinalPrice = &final
		decision.DiscountPct = &pct
		return nil
	default:
		return NewBusinessError("PRICE_INPUT_INVALID", "Price input kind must be discount, final or unset", ErrPriceInputRequired)
	}
}

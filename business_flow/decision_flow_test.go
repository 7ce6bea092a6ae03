package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	yptesting "github.com/klb1963/yachtpricer/testing"
	"github.com/klb1963/yachtpricer/utils"
)

type decisionFlowEnv struct {
	flow      DecisionFlow
	auditRepo repository.PriceAuditLogRepository
	fixtures  *yptesting.TestFixtures
}

func setupDecisionFlow(t *testing.T) *decisionFlowEnv {
	t.Helper()

	tdb, err := yptesting.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tdb.CleanupTestDB() })

	yachtRepo := repository.NewYachtRepository(tdb.DB)
	userRepo := repository.NewUserRepository(tdb.DB)
	decisionRepo := repository.NewPricingDecisionRepository(tdb.DB)
	auditRepo := repository.NewPriceAuditLogRepository(tdb.DB)

	pricingFlow := NewPricingFlow(
		yachtRepo,
		userRepo,
		repository.NewPriceListRepository(tdb.DB),
		repository.NewCompetitorSnapshotRepository(tdb.DB),
		decisionRepo,
	)

	return &decisionFlowEnv{
		flow:      NewDecisionFlow(yachtRepo, userRepo, decisionRepo, auditRepo, pricingFlow, tdb.DB),
		auditRepo: auditRepo,
		fixtures:  yptesting.NewTestFixtures(tdb),
	}
}

func actorFor(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, OrgID: u.OrgID}
}

func TestUpsertDraft(t *testing.T) {
	env := setupDecisionFlow(t)
	ctx := context.Background()

	yacht, err := env.fixtures.CreateTestYacht()
	require.NoError(t, err)
	manager, err := env.fixtures.CreateTestUser(models.RoleManager)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignManager(yacht.ID, manager.ID))

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))

	t.Run("lazily creates draft with resolver base price", func(t *testing.T) {
		_, err := env.fixtures.CreatePriceListEntry(yacht.ID, week.AddDate(0, 0, -7), 3500)
		require.NoError(t, err)

		decision, err := env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 10}, actorFor(manager))
		require.NoError(t, err)
		assert.Equal(t, models.DecisionStatusDraft, decision.Status)
		assert.Equal(t, 3500.0, decision.BasePrice)
		require.NotNil(t, decision.DiscountPct)
		require.NotNil(t, decision.FinalPrice)
		assert.InDelta(t, 10.0, *decision.DiscountPct, 0.001)
		assert.InDelta(t, 3150.0, *decision.FinalPrice, 0.001)
	})

	t.Run("final price input derives discount", func(t *testing.T) {
		decision, err := env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputFinal, FinalPrice: 2800}, actorFor(manager))
		require.NoError(t, err)
		require.NotNil(t, decision.DiscountPct)
		assert.InDelta(t, 20.0, *decision.DiscountPct, 0.001)
	})

	t.Run("discount above yacht maximum rejected", func(t *testing.T) {
		_, err := env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 55}, actorFor(manager))
		require.Error(t, err)
	})

	t.Run("unassigned manager may not edit", func(t *testing.T) {
		outsider, err := env.fixtures.CreateTestUser(models.RoleManager)
		require.NoError(t, err)
		_, err = env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 5}, actorFor(outsider))
		require.Error(t, err)
		assert.True(t, IsNotAuthorized(err))
	})
}

func TestChangeStatus(t *testing.T) {
	env := setupDecisionFlow(t)
	ctx := context.Background()

	yacht, err := env.fixtures.CreateTestYacht()
	require.NoError(t, err)
	manager, err := env.fixtures.CreateTestUser(models.RoleManager)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignManager(yacht.ID, manager.ID))
	owner, err := env.fixtures.CreateTestUser(models.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignOwner(yacht.ID, owner.ID, models.OwnershipModeActive))

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))
	unset := PriceInput{Kind: PriceInputUnset}

	_, err = env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 10}, actorFor(manager))
	require.NoError(t, err)

	t.Run("draft cannot jump straight to approved", func(t *testing.T) {
		_, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusApproved, unset, actorFor(owner), nil, nil)
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})

	t.Run("owner cannot submit", func(t *testing.T) {
		_, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted, unset, actorFor(owner), nil, nil)
		require.Error(t, err)
		assert.True(t, IsNotAuthorized(err))
	})

	t.Run("manager submits with a fresh edit and an audit row is written", func(t *testing.T) {
		decision, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted,
			PriceInput{Kind: PriceInputDiscount, DiscountPct: 15}, actorFor(manager), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DecisionStatusSubmitted, decision.Status)
		require.NotNil(t, decision.DiscountPct)
		assert.InDelta(t, 15.0, *decision.DiscountPct, 0.001)

		entries, err := env.auditRepo.ListByDecision(ctx, decision.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.PriceAuditActionSubmit, entries[0].Action)
		assert.Equal(t, models.DecisionStatusDraft, entries[0].FromStatus)
		assert.Equal(t, models.DecisionStatusSubmitted, entries[0].ToStatus)
		assert.Equal(t, manager.ID, entries[0].ActorID)
	})

	t.Run("submitted decision is no longer editable", func(t *testing.T) {
		_, err := env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 5}, actorFor(manager))
		require.Error(t, err)
		assert.True(t, IsDecisionNotEditable(err))
	})

	t.Run("reject without comment fails before any mutation", func(t *testing.T) {
		empty := "   "
		for _, comment := range []*string{nil, &empty} {
			_, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusRejected, unset, actorFor(owner), comment, nil)
			require.Error(t, err)
			assert.True(t, IsRejectionCommentRequired(err))
		}

		entries, err := env.auditRepo.ListByDecision(ctx, 1, 10, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("owner rejects with comment, manager resubmits, owner approves", func(t *testing.T) {
		comment := "Too aggressive for high season"
		decision, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusRejected, unset, actorFor(owner), &comment, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DecisionStatusRejected, decision.Status)

		decision, err = env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted,
			PriceInput{Kind: PriceInputDiscount, DiscountPct: 8}, actorFor(manager), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DecisionStatusSubmitted, decision.Status)

		decision, err = env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusApproved, unset, actorFor(owner), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DecisionStatusApproved, decision.Status)
		require.NotNil(t, decision.ApprovedBy)
		assert.Equal(t, owner.ID, *decision.ApprovedBy)
		assert.NotNil(t, decision.ApprovedAt)

		entries, err := env.auditRepo.ListByDecision(ctx, decision.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})

	t.Run("approved decision accepts no further transitions", func(t *testing.T) {
		_, err := env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted, unset, actorFor(manager), nil, nil)
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})

	t.Run("missing decision fails", func(t *testing.T) {
		otherWeek := week.AddDate(0, 0, 14)
		_, err := env.flow.ChangeStatus(ctx, yacht.ID, otherWeek, models.DecisionStatusSubmitted, unset, actorFor(manager), nil, nil)
		require.Error(t, err)
		assert.True(t, IsDecisionNotFound(err))
	})
}

func TestViewOnlyOwnerCannotApprove(t *testing.T) {
	env := setupDecisionFlow(t)
	ctx := context.Background()

	yacht, err := env.fixtures.CreateTestYacht()
	require.NoError(t, err)
	manager, err := env.fixtures.CreateTestUser(models.RoleManager)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignManager(yacht.ID, manager.ID))
	owner, err := env.fixtures.CreateTestUser(models.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignOwner(yacht.ID, owner.ID, models.OwnershipModeViewOnly))

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))
	unset := PriceInput{Kind: PriceInputUnset}

	_, err = env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 10}, actorFor(manager))
	require.NoError(t, err)
	_, err = env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted, unset, actorFor(manager), nil, nil)
	require.NoError(t, err)

	_, err = env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusApproved, unset, actorFor(owner), nil, nil)
	require.Error(t, err)
	assert.True(t, IsNotAuthorized(err))
}

func TestGetAuditTrail(t *testing.T) {
	env := setupDecisionFlow(t)
	ctx := context.Background()

	yacht, err := env.fixtures.CreateTestYacht()
	require.NoError(t, err)
	manager, err := env.fixtures.CreateTestUser(models.RoleManager)
	require.NoError(t, err)
	require.NoError(t, env.fixtures.AssignManager(yacht.ID, manager.ID))

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))

	t.Run("empty trail for a week without a decision", func(t *testing.T) {
		entries, err := env.flow.GetAuditTrail(ctx, yacht.ID, week, actorFor(manager), 10, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("trail lists transitions", func(t *testing.T) {
		_, err = env.flow.UpsertDraft(ctx, yacht.ID, week, PriceInput{Kind: PriceInputDiscount, DiscountPct: 10}, actorFor(manager))
		require.NoError(t, err)
		_, err = env.flow.ChangeStatus(ctx, yacht.ID, week, models.DecisionStatusSubmitted, PriceInput{Kind: PriceInputUnset}, actorFor(manager), nil, nil)
		require.NoError(t, err)

		entries, err := env.flow.GetAuditTrail(ctx, yacht.ID, week, actorFor(manager), 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.PriceAuditActionSubmit, entries[0].Action)
	})

	t.Run("actor without view rights denied", func(t *testing.T) {
		outsider, err := env.fixtures.CreateTestUser(models.RoleManager)
		require.NoError(t, err)
		_, err = env.flow.GetAuditTrail(ctx, yacht.ID, week, actorFor(outsider), 10, 0)
		require.Error(t, err)
		assert.True(t, IsNotAuthorized(err))
	})
}

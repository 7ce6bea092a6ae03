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

func setupPricingFlow(t *testing.T) (PricingFlow, *yptesting.TestFixtures) {
	t.Helper()

	tdb, err := yptesting.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tdb.CleanupTestDB() })

	flow := NewPricingFlow(
		repository.NewYachtRepository(tdb.DB),
		repository.NewUserRepository(tdb.DB),
		repository.NewPriceListRepository(tdb.DB),
		repository.NewCompetitorSnapshotRepository(tdb.DB),
		repository.NewPricingDecisionRepository(tdb.DB),
	)
	return flow, yptesting.NewTestFixtures(tdb)
}

func TestResolveEffectivePrice(t *testing.T) {
	flow, fixtures := setupPricingFlow(t)
	ctx := context.Background()

	yacht, err := fixtures.CreateTestYacht()
	require.NoError(t, err)

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))

	t.Run("falls back to yacht base price without entries", func(t *testing.T) {
		price, err := flow.ResolveEffectivePrice(ctx, yacht.ID, week)
		require.NoError(t, err)
		assert.Equal(t, yacht.BasePrice, price)
	})

	t.Run("latest entry on or before the week wins", func(t *testing.T) {
		_, err := fixtures.CreatePriceListEntry(yacht.ID, week.AddDate(0, -2, 0), 3200)
		require.NoError(t, err)
		_, err = fixtures.CreatePriceListEntry(yacht.ID, week.AddDate(0, 0, -7), 3500)
		require.NoError(t, err)
		_, err = fixtures.CreatePriceListEntry(yacht.ID, week.AddDate(0, 0, 7), 9999)
		require.NoError(t, err)

		price, err := flow.ResolveEffectivePrice(ctx, yacht.ID, week)
		require.NoError(t, err)
		assert.Equal(t, 3500.0, price)
	})

	t.Run("entries for other yachts are ignored", func(t *testing.T) {
		other, err := fixtures.CreateTestYacht()
		require.NoError(t, err)
		_, err = fixtures.CreatePriceListEntry(other.ID, week.AddDate(0, 0, -1), 1111)
		require.NoError(t, err)

		price, err := flow.ResolveEffectivePrice(ctx, yacht.ID, week)
		require.NoError(t, err)
		assert.Equal(t, 3500.0, price)
	})

	t.Run("unknown yacht fails", func(t *testing.T) {
		_, err := flow.ResolveEffectivePrice(ctx, 99999, week)
		require.Error(t, err)
		assert.True(t, IsYachtNotFound(err))
	})
}

func TestGetRows(t *testing.T) {
	flow, fixtures := setupPricingFlow(t)
	ctx := context.Background()

	yacht, err := fixtures.CreateTestYacht()
	require.NoError(t, err)
	other, err := fixtures.CreateTestYacht()
	require.NoError(t, err)

	manager, err := fixtures.CreateTestUser(models.RoleManager)
	require.NoError(t, err)
	require.NoError(t, fixtures.AssignManager(yacht.ID, manager.ID))

	admin, err := fixtures.CreateTestUser(models.RoleAdmin)
	require.NoError(t, err)

	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))

	t.Run("manager sees only assigned yachts", func(t *testing.T) {
		rows, err := flow.GetRows(ctx, week, Actor{UserID: manager.ID, Role: manager.Role, OrgID: manager.OrgID})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, yacht.ID, rows[0].Yacht.ID)
		assert.True(t, rows[0].Permissions.CanSubmit)
		assert.False(t, rows[0].Permissions.CanApproveOrReject)
	})

	t.Run("admin sees every yacht in the org", func(t *testing.T) {
		rows, err := flow.GetRows(ctx, week, Actor{UserID: admin.ID, Role: admin.Role, OrgID: admin.OrgID})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		_ = other
	})

	t.Run("rows carry the effective base price", func(t *testing.T) {
		_, err := fixtures.CreatePriceListEntry(yacht.ID, week.AddDate(0, 0, -7), 2750)
		require.NoError(t, err)

		rows, err := flow.GetRows(ctx, week, Actor{UserID: manager.ID, Role: manager.Role, OrgID: manager.OrgID})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 2750.0, rows[0].BasePrice)
	})

	t.Run("unknown actor fails", func(t *testing.T) {
		_, err := flow.GetRows(ctx, week, Actor{UserID: 99999})
		require.Error(t, err)
		assert.True(t, IsUserNotFound(err))
	})
}

func TestPriceMath(t *testing.T) {
	t.Run("final from discount", func(t *testing.T) {
		assert.InDelta(t, 2700.0, CalcFinalPrice(3000, 10), 0.001)
		assert.InDelta(t, 3000.0, CalcFinalPrice(3000, 0), 0.001)
		assert.Equal(t, 0.0, CalcFinalPrice(3000, 150))
	})

	t.Run("discount from final", func(t *testing.T) {
		assert.InDelta(t, 10.0, CalcDiscountPct(3000, 2700), 0.001)
		assert.Equal(t, 0.0, CalcDiscountPct(0, 2700))
	})

	t.Run("round trip stays within a tenth of a percent", func(t *testing.T) {
		base := 2847.0
		for _, pct := range []float64{0, 5, 7.5, 12.3, 33.4, 50} {
			final := CalcFinalPrice(base, pct)
			back := CalcDiscountPct(base, final)
			assert.InDelta(t, pct, back, 0.1, "pct %v", pct)
		}
	})
}

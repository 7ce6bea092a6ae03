package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klb1963/yachtpricer/app/services"
	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	yptesting "github.com/klb1963/yachtpricer/testing"
	"github.com/klb1963/yachtpricer/utils"
)

// fakeProvider is a scripted InventoryProvider for scan tests
type fakeProvider struct {
	operators    []services.CharterOperator
	operatorsErr error
	vessels      map[int64][]services.CharterVessel
	vesselsErr   map[int64]error
	offers       []services.AvailabilityOffer
}

func (f *fakeProvider) Operators(ctx context.Context, creds services.ProviderCredentials) ([]services.CharterOperator, error) {
	return f.operators, f.operatorsErr
}

func (f *fakeProvider) Vessels(ctx context.Context, creds services.ProviderCredentials, operatorID int64) ([]services.CharterVessel, error) {
	if err, ok := f.vesselsErr[operatorID]; ok {
		return nil, err
	}
	return f.vessels[operatorID], nil
}

func (f *fakeProvider) OpenAvailability(ctx context.Context, creds services.ProviderCredentials, periodFrom, periodTo time.Time, page, pageSize int) ([]services.AvailabilityOffer, error) {
	if page == 1 {
		return f.offers, nil
	}
	return nil, nil
}

// fakeReferenceService resolves nothing; scans work without mirrored geography
type fakeReferenceService struct{}

func (fakeReferenceService) ModelLengthFt(ctx context.Context, modelVendorID int64) (*float64, error) {
	return nil, nil
}

func (fakeReferenceService) CountryForLocation(ctx context.Context, locationVendorID int64) (*models.Country, error) {
	return nil, nil
}

func (fakeReferenceService) LocationName(ctx context.Context, locationVendorID int64) (*string, error) {
	return nil, nil
}

type scanFlowEnv struct {
	flow         ScanFlow
	provider     *fakeProvider
	priceRepo    repository.CompetitorPriceRepository
	snapshotRepo repository.CompetitorSnapshotRepository
	fixtures     *yptesting.TestFixtures
}

func setupScanFlow(t *testing.T) *scanFlowEnv {
	t.Helper()

	tdb, err := yptesting.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tdb.CleanupTestDB() })

	provider := &fakeProvider{
		vessels:    make(map[int64][]services.CharterVessel),
		vesselsErr: make(map[int64]error),
	}
	collector := NewCollector(provider, fakeReferenceService{}, 50, time.Second)

	priceRepo := repository.NewCompetitorPriceRepository(tdb.DB)
	snapshotRepo := repository.NewCompetitorSnapshotRepository(tdb.DB)

	flow := NewScanFlow(
		repository.NewYachtRepository(tdb.DB),
		repository.NewFilterConfigRepository(tdb.DB),
		priceRepo,
		snapshotRepo,
		collector,
		tdb.DB,
	)

	return &scanFlowEnv{
		flow:         flow,
		provider:     provider,
		priceRepo:    priceRepo,
		snapshotRepo: snapshotRepo,
		fixtures:     yptesting.NewTestFixtures(tdb),
	}
}

// seedMatchingMarket scripts one operator with three comparable monohulls
func (env *scanFlowEnv) seedMatchingMarket() {
	env.provider.operators = []services.CharterOperator{{ID: 10, Name: "Adria Charter", LocationIDs: []int64{100}}}
	env.provider.vessels[10] = []services.CharterVessel{
		{ID: 1, OperatorID: 10, Name: "Oceanis 46.1", HullType: "monohull", Length: utils.ToPtr(46.5), Cabins: utils.ToPtr(4), Heads: utils.ToPtr(3), BuildYear: utils.ToPtr(2020)},
		{ID: 2, OperatorID: 10, Name: "Sun Odyssey 449", HullType: "monohull", Length: utils.ToPtr(44.0), Cabins: utils.ToPtr(4), Heads: utils.ToPtr(2), BuildYear: utils.ToPtr(2018)},
		{ID: 3, OperatorID: 10, Name: "Bavaria C45", HullType: "monohull", Length: utils.ToPtr(45.9), Cabins: utils.ToPtr(4), Heads: utils.ToPtr(3), BuildYear: utils.ToPtr(2019)},
	}
	env.provider.offers = []services.AvailabilityOffer{
		{VesselID: 1, PeriodFrom: "11.07.2026", PeriodTo: "18.07.2026", Price: "1300,00", Currency: "EUR"},
		{VesselID: 2, PeriodFrom: "11.07.2026", PeriodTo: "18.07.2026", Price: "1000,00", Currency: "EUR"},
		{VesselID: 3, PeriodFrom: "11.07.2026", PeriodTo: "18.07.2026", Price: "1100,00", Currency: "EUR"},
	}
}

func TestRunScan(t *testing.T) {
	env := setupScanFlow(t)
	ctx := context.Background()

	yacht, err := env.fixtures.CreateTestYacht()
	require.NoError(t, err)
	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))
	req := ScanRequest{YachtID: yacht.ID, WeekStart: week}

	t.Run("accepted candidates persisted with snapshot", func(t *testing.T) {
		env.seedMatchingMarket()

		result, err := env.flow.RunScan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Accepted)
		assert.Equal(t, 0, result.Rejected)

		rows, err := env.priceRepo.ListForKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		assert.Len(t, rows, 3)

		snapshot, err := env.snapshotRepo.ByKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.InDelta(t, 1000.0, snapshot.Top1Price, 0.001)
		assert.InDelta(t, 1133.33, snapshot.Top3Avg, 0.001)
		assert.Equal(t, 3, snapshot.SampleSize)
	})

	t.Run("rescan fully replaces prior rows", func(t *testing.T) {
		env.provider.offers = env.provider.offers[:2]

		result, err := env.flow.RunScan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Accepted)

		rows, err := env.priceRepo.ListForKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		snapshot, err := env.snapshotRepo.ByKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, 2, snapshot.SampleSize)
	})

	t.Run("rejections counted with top reasons ordered by count", func(t *testing.T) {
		env.seedMatchingMarket()
		env.provider.vessels[10] = append(env.provider.vessels[10],
			services.CharterVessel{ID: 4, OperatorID: 10, Name: "Lagoon 42", HullType: "catamaran", Length: utils.ToPtr(42.0), Cabins: utils.ToPtr(4), BuildYear: utils.ToPtr(2019)},
			services.CharterVessel{ID: 5, OperatorID: 10, Name: "Lagoon 50", HullType: "catamaran", Length: utils.ToPtr(50.0), Cabins: utils.ToPtr(6), BuildYear: utils.ToPtr(2019)},
		)
		env.provider.offers = append(env.provider.offers,
			services.AvailabilityOffer{VesselID: 4, PeriodFrom: "11.07.2026", PeriodTo: "18.07.2026", Price: "1500,00", Currency: "EUR"},
			services.AvailabilityOffer{VesselID: 5, PeriodFrom: "11.07.2026", PeriodTo: "18.07.2026", Price: "2500,00", Currency: "EUR"},
		)

		result, err := env.flow.RunScan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Accepted)
		assert.Equal(t, 2, result.Rejected)
		require.NotEmpty(t, result.TopReasons)
		assert.Equal(t, ReasonHullType, result.TopReasons[0].Reason)
		assert.Equal(t, 2, result.TopReasons[0].Count)
	})

	t.Run("malformed prices skipped not fatal", func(t *testing.T) {
		env.seedMatchingMarket()
		env.provider.offers[0].Price = "POA"

		result, err := env.flow.RunScan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Accepted)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("zero accepted rescan leaves no rows and no snapshot", func(t *testing.T) {
		env.seedMatchingMarket()
		for i := range env.provider.vessels[10] {
			env.provider.vessels[10][i].HullType = "catamaran"
		}

		result, err := env.flow.RunScan(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Accepted)
		assert.Equal(t, 3, result.Rejected)

		rows, err := env.priceRepo.ListForKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		assert.Empty(t, rows)

		snapshot, err := env.snapshotRepo.ByKey(ctx, yacht.ID, week, utils.DefaultScanSource)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("unknown yacht fails", func(t *testing.T) {
		_, err := env.flow.RunScan(ctx, ScanRequest{YachtID: 99999, WeekStart: week})
		require.Error(t, err)
		assert.True(t, IsYachtNotFound(err))
	})
}

func TestRunScanProviderFailures(t *testing.T) {
	ctx := context.Background()
	week := utils.CharterWeekStart(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC))

	t.Run("empty operator universe is fatal", func(t *testing.T) {
		env := setupScanFlow(t)
		yacht, err := env.fixtures.CreateTestYacht()
		require.NoError(t, err)

		_, err = env.flow.RunScan(ctx, ScanRequest{YachtID: yacht.ID, WeekStart: week})
		require.Error(t, err)
		assert.True(t, IsProviderNoOperators(err))
	})

	t.Run("empty vessel universe is fatal", func(t *testing.T) {
		env := setupScanFlow(t)
		yacht, err := env.fixtures.CreateTestYacht()
		require.NoError(t, err)
		env.provider.operators = []services.CharterOperator{{ID: 10, Name: "Adria Charter"}}

		_, err = env.flow.RunScan(ctx, ScanRequest{YachtID: yacht.ID, WeekStart: week})
		require.Error(t, err)
		assert.True(t, IsProviderNoVessels(err))
	})

	t.Run("one broken operator is partial, scan continues", func(t *testing.T) {
		env := setupScanFlow(t)
		yacht, err := env.fixtures.CreateTestYacht()
		require.NoError(t, err)

		env.seedMatchingMarket()
		env.provider.operators = append(env.provider.operators, services.CharterOperator{ID: 20, Name: "Broken Charter"})
		env.provider.vesselsErr[20] = context.DeadlineExceeded

		result, err := env.flow.RunScan(ctx, ScanRequest{YachtID: yacht.ID, WeekStart: week})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Accepted)
		assert.Equal(t, 1, result.Stats.FailedOperators)
	})

	t.Run("location hints restrict operators", func(t *testing.T) {
		env := setupScanFlow(t)
		yacht, err := env.fixtures.CreateTestYacht()
		require.NoError(t, err)
		env.seedMatchingMarket()

		_, err = env.flow.RunScan(ctx, ScanRequest{YachtID: yacht.ID, WeekStart: week, LocationHints: []int64{999}})
		require.Error(t, err)
		assert.True(t, IsProviderNoOperators(err))

		result, err := env.flow.RunScan(ctx, ScanRequest{YachtID: yacht.ID, WeekStart: week, LocationHints: []int64{100}})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Accepted)
	})
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	yptesting "github.com/klb1963/yachtpricer/testing"
	"github.com/klb1963/yachtpricer/utils"
)

func setupReferenceService(t *testing.T) (ReferenceService, *yptesting.TestDB) {
	t.Helper()

	tdb, err := yptesting.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tdb.CleanupTestDB() })

	// nil redis client: lookups go straight to the database
	svc := NewReferenceService(nil, repository.NewGeoRepository(tdb.DB), repository.NewYachtModelRepository(tdb.DB))
	return svc, tdb
}

func TestModelLengthFt(t *testing.T) {
	svc, tdb := setupReferenceService(t)
	ctx := context.Background()

	require.NoError(t, tdb.DB.Create(&models.YachtModel{VendorID: 501, Name: "Oceanis 46.1", LengthFt: utils.ToPtr(14.2)}).Error)
	require.NoError(t, tdb.DB.Create(&models.YachtModel{VendorID: 502, Name: "Mystery Hull"}).Error)

	t.Run("known model returns its length", func(t *testing.T) {
		length, err := svc.ModelLengthFt(ctx, 501)
		require.NoError(t, err)
		require.NotNil(t, length)
		assert.InDelta(t, 14.2, *length, 0.001)
	})

	t.Run("model without length returns nil", func(t *testing.T) {
		length, err := svc.ModelLengthFt(ctx, 502)
		require.NoError(t, err)
		assert.Nil(t, length)
	})

	t.Run("unknown model returns nil", func(t *testing.T) {
		length, err := svc.ModelLengthFt(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, length)
	})
}

func TestCountryForLocation(t *testing.T) {
	svc, tdb := setupReferenceService(t)
	ctx := context.Background()

	croatia := models.Country{Code: "HR", Name: "Croatia"}
	require.NoError(t, tdb.DB.Create(&croatia).Error)
	greece := models.Country{Code: "GR", Name: "Greece"}
	require.NoError(t, tdb.DB.Create(&greece).Error)

	dalmatia := models.Region{VendorID: 7, Name: "Dalmatia", CountryID: croatia.ID}
	require.NoError(t, tdb.DB.Create(&dalmatia).Error)

	// Direct country link beats the region chain.
	require.NoError(t, tdb.DB.Create(&models.Location{VendorID: 100, Name: "ACI Marina Split", RegionID: &dalmatia.ID, CountryID: &greece.ID}).Error)
	require.NoError(t, tdb.DB.Create(&models.Location{VendorID: 101, Name: "Marina Kastela", RegionID: &dalmatia.ID}).Error)
	require.NoError(t, tdb.DB.Create(&models.Location{VendorID: 102, Name: "Orphan Marina"}).Error)

	t.Run("direct link preferred over region", func(t *testing.T) {
		country, err := svc.CountryForLocation(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, country)
		assert.Equal(t, "GR", country.Code)
	})

	t.Run("region chain used when no direct link", func(t *testing.T) {
		country, err := svc.CountryForLocation(ctx, 101)
		require.NoError(t, err)
		require.NotNil(t, country)
		assert.Equal(t, "HR", country.Code)
	})

	t.Run("broken chain returns nil", func(t *testing.T) {
		country, err := svc.CountryForLocation(ctx, 102)
		require.NoError(t, err)
		assert.Nil(t, country)
	})

	t.Run("unknown location returns nil", func(t *testing.T) {
		country, err := svc.CountryForLocation(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, country)
	})

	t.Run("location name resolves", func(t *testing.T) {
		name, err := svc.LocationName(ctx, 101)
		require.NoError(t, err)
		require.NotNil(t, name)
		assert.Equal(t, "Marina Kastela", *name)
	})
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
)

// GeoRepositoryImpl implements the GeoRepository interface
type GeoRepositoryImpl struct {
	db *gorm.DB
}

// NewGeoRepository creates a new geography repository
func NewGeoRepository(db *gorm.DB) GeoRepository {
	return &GeoRepositoryImpl{db: db}
}

func (r *GeoRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// LocationByVendorID retrieves a location by the provider's id, nil when unknown
func (r *GeoRepositoryImpl) LocationByVendorID(ctx context.Context, vendorID int64) (*models.Location, error) {
	db := r.getDB(ctx)

	var location models.Location
	err := db.Where("vendor_id = ?", vendorID).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &location, nil
}

// CountryForLocation resolves the country for a vendor location id. A direct
// location to country link wins; otherwise the region's country is used.
// Returns nil when the chain is broken at any step.
func (r *GeoRepositoryImpl) CountryForLocation(ctx context.Context, vendorID int64) (*models.Country, error) {
	db := r.getDB(ctx)

	location, err := r.LocationByVendorID(ctx, vendorID)
	if err != nil || location == nil {
		return nil, err
	}

	var countryID uint
	switch {
	case location.CountryID != nil:
		countryID = *location.CountryID
	case location.RegionID != nil:
		var region models.Region
		err := db.Where("id = ?", *location.RegionID).First(&region).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		countryID = region.CountryID
	default:
		return nil, nil
	}

	var country models.Country
	err = db.Where("id = ?", countryID).First(&country).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &country, nil
}

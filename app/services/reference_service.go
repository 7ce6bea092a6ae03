package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
	"github.com/klb1963/yachtpricer/utils"
)

// ReferenceService resolves provider reference data through a redis
// cache-aside over the locally mirrored catalogue tables. The redis client
// may be nil; lookups then go straight to the database.
type ReferenceService interface {
	// ModelLengthFt returns the vendor model's length, nil when the model is
	// unknown or carries no length.
	ModelLengthFt(ctx context.Context, modelVendorID int64) (*float64, error)
	// CountryForLocation resolves a vendor location id to a country, nil when
	// the geography chain is incomplete.
	CountryForLocation(ctx context.Context, locationVendorID int64) (*models.Country, error)
	// LocationName returns the marina name for a vendor location id, nil when
	// the location is not mirrored locally.
	LocationName(ctx context.Context, locationVendorID int64) (*string, error)
}

// ReferenceServiceImpl implements ReferenceService
type ReferenceServiceImpl struct {
	rc        *redis.Client
	geoRepo   repository.GeoRepository
	modelRepo repository.YachtModelRepository
}

// NewReferenceService creates a new reference data service
func NewReferenceService(rc *redis.Client, geoRepo repository.GeoRepository, modelRepo repository.YachtModelRepository) ReferenceService {
	return &ReferenceServiceImpl{
		rc:        rc,
		geoRepo:   geoRepo,
		modelRepo: modelRepo,
	}
}

// ModelLengthFt returns the vendor model's length via cache, then database
func (s *ReferenceServiceImpl) ModelLengthFt(ctx context.Context, modelVendorID int64) (*float64, error) {
	cacheKey := fmt.Sprintf("ref:model_length:%d", modelVendorID)

	if s.rc != nil {
		if cached, err := s.rc.Get(ctx, cacheKey).Result(); err == nil {
			length, err := strconv.ParseFloat(cached, 64)
			if err == nil {
				return &length, nil
			}
		}
	}

	model, err := s.modelRepo.ByVendorID(ctx, modelVendorID)
	if err != nil {
		return nil, err
	}
	if model == nil || model.LengthFt == nil {
		return nil, nil
	}

	if s.rc != nil {
		_ = s.rc.Set(ctx, cacheKey, strconv.FormatFloat(*model.LengthFt, 'f', -1, 64), utils.ModelLengthCacheTTL).Err()
	}

	return model.LengthFt, nil
}

// LocationName returns the marina name via cache, then database
func (s *ReferenceServiceImpl) LocationName(ctx context.Context, locationVendorID int64) (*string, error) {
	cacheKey := fmt.Sprintf("ref:location_name:%d", locationVendorID)

	if s.rc != nil {
		if cached, err := s.rc.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return &cached, nil
		}
	}

	location, err := s.geoRepo.LocationByVendorID(ctx, locationVendorID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}

	if s.rc != nil {
		_ = s.rc.Set(ctx, cacheKey, location.Name, utils.LocationCountryCacheTTL).Err()
	}

	return &location.Name, nil
}

// CountryForLocation resolves a vendor location id to a country via cache, then database
func (s *ReferenceServiceImpl) CountryForLocation(ctx context.Context, locationVendorID int64) (*models.Country, error) {
	cacheKey := fmt.Sprintf("ref:location_country:%d", locationVendorID)

	if s.rc != nil {
		if cached, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil {
			var country models.Country
			if err := json.Unmarshal(cached, &country); err == nil {
				return &country, nil
			}
		}
	}

	country, err := s.geoRepo.CountryForLocation(ctx, locationVendorID)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, nil
	}

	if s.rc != nil {
		if bs, err := json.Marshal(country); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, utils.LocationCountryCacheTTL).Err()
		}
	}

	return country, nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// CompetitorPriceRepositoryImpl implements the CompetitorPriceRepository interface
type CompetitorPriceRepositoryImpl struct {
	*BaseRepository[models.CompetitorPrice, models.CompetitorPriceFilter]
}

// NewCompetitorPriceRepository creates a new competitor price repository
func NewCompetitorPriceRepository(db *gorm.DB) CompetitorPriceRepository {
	return &CompetitorPriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CompetitorPrice, models.CompetitorPriceFilter](db),
	}
}

// ListForKey retrieves the accepted rows for one (yacht, week, source) key,
// cheapest first
func (r *CompetitorPriceRepositoryImpl) ListForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) ([]*models.CompetitorPrice, error) {
	filter := models.CompetitorPriceFilter{
		YachtID:   &yachtID,
		WeekStart: utils.ToPtr(utils.TruncateToUTCDate(weekStart)),
		Source:    &source,
	}
	return r.ByFilter(ctx, filter, "price ASC", 0, 0)
}

// DeleteForKey removes all rows for one (yacht, week, source) key. Scans
// call this before inserting the fresh accepted set so stale rows never mix
// with new ones.
func (r *CompetitorPriceRepositoryImpl) DeleteForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("yacht_id = ? AND week_start = ? AND source = ?",
		yachtID, utils.TruncateToUTCDate(weekStart), source).
		Delete(&models.CompetitorPrice{}).Error

	return err
}

// ByFilter retrieves competitor prices based on filter criteria
func (r *CompetitorPriceRepositoryImpl) ByFilter(ctx context.Context, filter models.CompetitorPriceFilter, orderBy string, limit, offset int) ([]*models.CompetitorPrice, error) {
	db := r.getDB(ctx)

	var prices []*models.CompetitorPrice
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&prices).Error; err != nil {
		return nil, err
	}

	return prices, nil
}

// Count returns the number of competitor prices matching the filter
func (r *CompetitorPriceRepositoryImpl) Count(ctx context.Context, filter models.CompetitorPriceFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.CompetitorPrice{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CompetitorPriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.CompetitorPriceFilter) *gorm.DB {
	if filter.YachtID != nil {
		db = db.Where("yacht_id = ?", *filter.YachtID)
	}
	if filter.WeekStart != nil {
		db = db.Where("week_start = ?", *filter.WeekStart)
	}
	if filter.Source != nil {
		db = db.Where("source = ?", *filter.Source)
	}
	if filter.CountryCode != nil {
		db = db.Where("country_code = ?", *filter.CountryCode)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}

	return db
}

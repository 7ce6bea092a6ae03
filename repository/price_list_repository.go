package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// PriceListRepositoryImpl implements the PriceListRepository interface
type PriceListRepositoryImpl struct {
	*BaseRepository[models.PriceListEntry, models.PriceListEntryFilter]
}

// NewPriceListRepository creates a new price list repository
func NewPriceListRepository(db *gorm.DB) PriceListRepository {
	return &PriceListRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceListEntry, models.PriceListEntryFilter](db),
	}
}

// LatestOnOrBefore returns the yacht's curated entry with the latest
// effective date not after the given date, nil when the yacht has none.
func (r *PriceListRepositoryImpl) LatestOnOrBefore(ctx context.Context, yachtID uint, date time.Time) (*models.PriceListEntry, error) {
	db := r.getDB(ctx)

	var entry models.PriceListEntry
	err := db.Where("yacht_id = ? AND effective_date <= ?",
		yachtID, utils.TruncateToUTCDate(date)).
		Order("effective_date DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// ByFilter retrieves price list entries based on filter criteria
func (r *PriceListRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceListEntryFilter, orderBy string, limit, offset int) ([]*models.PriceListEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.PriceListEntry
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

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of price list entries matching the filter
func (r *PriceListRepositoryImpl) Count(ctx context.Context, filter models.PriceListEntryFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.PriceListEntry{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PriceListRepositoryImpl) applyFilter(db *gorm.DB, filter models.PriceListEntryFilter) *gorm.DB {
	if filter.YachtID != nil {
		db = db.Where("yacht_id = ?", *filter.YachtID)
	}
	if filter.EffectiveOn != nil {
		db = db.Where("effective_date <= ?", utils.TruncateToUTCDate(*filter.EffectiveOn))
	}

	return db
}

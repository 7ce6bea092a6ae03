package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// PricingDecisionRepositoryImpl implements the PricingDecisionRepository interface
type PricingDecisionRepositoryImpl struct {
	*BaseRepository[models.PricingDecision, models.PricingDecisionFilter]
}

// NewPricingDecisionRepository creates a new pricing decision repository
func NewPricingDecisionRepository(db *gorm.DB) PricingDecisionRepository {
	return &PricingDecisionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingDecision, models.PricingDecisionFilter](db),
	}
}

// ByYachtAndWeek retrieves the decision for one (yacht, week) key, nil when absent
func (r *PricingDecisionRepositoryImpl) ByYachtAndWeek(ctx context.Context, yachtID uint, weekStart time.Time) (*models.PricingDecision, error) {
	db := r.getDB(ctx)

	var decision models.PricingDecision
	err := db.Where("yacht_id = ? AND week_start = ?",
		yachtID, utils.TruncateToUTCDate(weekStart)).
		First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &decision, nil
}

// Update updates a pricing decision
func (r *PricingDecisionRepositoryImpl) Update(ctx context.Context, decision *models.PricingDecision) error {
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

	now := utils.UTCNow()
	decision.UpdatedAt = &now

	err = db.Save(decision).Error

	return err
}

// ByFilter retrieves pricing decisions based on filter criteria
func (r *PricingDecisionRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingDecisionFilter, orderBy string, limit, offset int) ([]*models.PricingDecision, error) {
	db := r.getDB(ctx)

	var decisions []*models.PricingDecision
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

	if err := query.Find(&decisions).Error; err != nil {
		return nil, err
	}

	return decisions, nil
}

// Count returns the number of pricing decisions matching the filter
func (r *PricingDecisionRepositoryImpl) Count(ctx context.Context, filter models.PricingDecisionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.PricingDecision{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PricingDecisionRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingDecisionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.YachtID != nil {
		db = db.Where("yacht_id = ?", *filter.YachtID)
	}
	if filter.WeekStart != nil {
		db = db.Where("week_start = ?", utils.TruncateToUTCDate(*filter.WeekStart))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	return db
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// FilterConfigRepositoryImpl implements the FilterConfigRepository interface
type FilterConfigRepositoryImpl struct {
	*BaseRepository[models.FilterConfig, models.FilterConfigFilter]
}

// NewFilterConfigRepository creates a new filter config repository
func NewFilterConfigRepository(db *gorm.DB) FilterConfigRepository {
	return &FilterConfigRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FilterConfig, models.FilterConfigFilter](db),
	}
}

// Resolve returns the effective tolerance profile for an actor: the
// user-scoped row if present, else the org-scoped row, else the hard
// defaults. The returned value is a copy; callers may hold it for the
// duration of a scan without seeing later edits.
func (r *FilterConfigRepositoryImpl) Resolve(ctx context.Context, orgID uint, userID *uint) (models.FilterConfig, error) {
	db := r.getDB(ctx)

	if userID != nil {
		var cfg models.FilterConfig
		err := db.Where("org_id = ? AND user_id = ?", orgID, *userID).
			Order("id DESC").First(&cfg).Error
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FilterConfig{}, err
		}
	}

	var cfg models.FilterConfig
	err := db.Where("org_id = ? AND user_id IS NULL", orgID).
		Order("id DESC").First(&cfg).Error
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FilterConfig{}, err
	}

	def := models.DefaultFilterConfig()
	def.OrgID = orgID
	return def, nil
}

// UpsertScoped creates or replaces the profile row matching the config's scope
func (r *FilterConfigRepositoryImpl) UpsertScoped(ctx context.Context, cfg *models.FilterConfig) error {
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

	query := db.Where("org_id = ?", cfg.OrgID)
	if cfg.UserID != nil {
		query = query.Where("user_id = ?", *cfg.UserID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	var existing models.FilterConfig
	err = query.Order("id DESC").First(&existing).Error
	switch {
	case err == nil:
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
		cfg.UpdatedAt = utils.ToPtr(utils.UTCNow())
		err = db.Save(cfg).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		cfg.CreatedAt = utils.UTCNow()
		err = db.Create(cfg).Error
	}

	return err
}

// ByFilter retrieves profiles based on filter criteria
func (r *FilterConfigRepositoryImpl) ByFilter(ctx context.Context, filter models.FilterConfigFilter, orderBy string, limit, offset int) ([]*models.FilterConfig, error) {
	db := r.getDB(ctx)

	var configs []*models.FilterConfig
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

	if err := query.Find(&configs).Error; err != nil {
		return nil, err
	}

	return configs, nil
}

// Count returns the number of profiles matching the filter
func (r *FilterConfigRepositoryImpl) Count(ctx context.Context, filter models.FilterConfigFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.FilterConfig{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *FilterConfigRepositoryImpl) applyFilter(db *gorm.DB, filter models.FilterConfigFilter) *gorm.DB {
	if filter.OrgID != nil {
		db = db.Where("org_id = ?", *filter.OrgID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}

	return db
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// CompetitorSnapshotRepositoryImpl implements the CompetitorSnapshotRepository interface
type CompetitorSnapshotRepositoryImpl struct {
	*BaseRepository[models.CompetitorSnapshot, models.CompetitorSnapshotFilter]
}

// NewCompetitorSnapshotRepository creates a new snapshot repository
func NewCompetitorSnapshotRepository(db *gorm.DB) CompetitorSnapshotRepository {
	return &CompetitorSnapshotRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CompetitorSnapshot, models.CompetitorSnapshotFilter](db),
	}
}

// ByKey retrieves the snapshot for one (yacht, week, source) key, nil when absent
func (r *CompetitorSnapshotRepositoryImpl) ByKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) (*models.CompetitorSnapshot, error) {
	db := r.getDB(ctx)

	var snapshot models.CompetitorSnapshot
	err := db.Where("yacht_id = ? AND week_start = ? AND source = ?",
		yachtID, utils.TruncateToUTCDate(weekStart), source).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &snapshot, nil
}

// Upsert replaces the snapshot for its key. Snapshots are derived data and
// always written whole.
func (r *CompetitorSnapshotRepositoryImpl) Upsert(ctx context.Context, snapshot *models.CompetitorSnapshot) error {
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

	snapshot.WeekStart = utils.TruncateToUTCDate(snapshot.WeekStart)

	var existing models.CompetitorSnapshot
	err = db.Where("yacht_id = ? AND week_start = ? AND source = ?",
		snapshot.YachtID, snapshot.WeekStart, snapshot.Source).
		First(&existing).Error
	switch {
	case err == nil:
		snapshot.ID = existing.ID
		err = db.Save(snapshot).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.Create(snapshot).Error
	}

	return err
}

// DeleteForKey removes the snapshot for one key, if any
func (r *CompetitorSnapshotRepositoryImpl) DeleteForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) error {
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
		Delete(&models.CompetitorSnapshot{}).Error

	return err
}

// ByFilter retrieves snapshots based on filter criteria
func (r *CompetitorSnapshotRepositoryImpl) ByFilter(ctx context.Context, filter models.CompetitorSnapshotFilter, orderBy string, limit, offset int) ([]*models.CompetitorSnapshot, error) {
	db := r.getDB(ctx)

	var snapshots []*models.CompetitorSnapshot
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

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// Count returns the number of snapshots matching the filter
func (r *CompetitorSnapshotRepositoryImpl) Count(ctx context.Context, filter models.CompetitorSnapshotFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.CompetitorSnapshot{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CompetitorSnapshotRepositoryImpl) applyFilter(db *gorm.DB, filter models.CompetitorSnapshotFilter) *gorm.DB {
	if filter.YachtID != nil {
		db = db.Where("yacht_id = ?", *filter.YachtID)
	}
	if filter.WeekStart != nil {
		db = db.Where("week_start = ?", *filter.WeekStart)
	}
	if filter.Source != nil {
		db = db.Where("source = ?", *filter.Source)
	}

	return db
}

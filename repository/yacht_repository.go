package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
)

// YachtRepositoryImpl implements the YachtRepository interface
type YachtRepositoryImpl struct {
	*BaseRepository[models.Yacht, models.YachtFilter]
}

// NewYachtRepository creates a new yacht repository
func NewYachtRepository(db *gorm.DB) YachtRepository {
	return &YachtRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Yacht, models.YachtFilter](db),
	}
}

// ByFilter retrieves yachts based on filter criteria
func (r *YachtRepositoryImpl) ByFilter(ctx context.Context, filter models.YachtFilter, orderBy string, limit, offset int) ([]*models.Yacht, error) {
	db := r.getDB(ctx)

	var yachts []*models.Yacht
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

	if err := query.Find(&yachts).Error; err != nil {
		return nil, err
	}

	return yachts, nil
}

// Count returns the number of yachts matching the filter
func (r *YachtRepositoryImpl) Count(ctx context.Context, filter models.YachtFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.Yacht{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// ListByOrg retrieves all yachts of an organization ordered by name
func (r *YachtRepositoryImpl) ListByOrg(ctx context.Context, orgID uint) ([]*models.Yacht, error) {
	filter := models.YachtFilter{OrgID: &orgID}
	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

// ManagerLink returns the manager assignment for (yacht, user), nil when absent
func (r *YachtRepositoryImpl) ManagerLink(ctx context.Context, yachtID, userID uint) (*models.YachtManager, error) {
	db := r.getDB(ctx)

	var link models.YachtManager
	err := db.Where("yacht_id = ? AND user_id = ?", yachtID, userID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &link, nil
}

// OwnerLink returns the ownership relation for (yacht, user), nil when absent
func (r *YachtRepositoryImpl) OwnerLink(ctx context.Context, yachtID, userID uint) (*models.YachtOwner, error) {
	db := r.getDB(ctx)

	var link models.YachtOwner
	err := db.Where("yacht_id = ? AND user_id = ?", yachtID, userID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &link, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *YachtRepositoryImpl) applyFilter(db *gorm.DB, filter models.YachtFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.OrgID != nil {
		db = db.Where("org_id = ?", *filter.OrgID)
	}
	if filter.Name != nil {
		db = db.Where("LOWER(name) LIKE ?", "%"+*filter.Name+"%")
	}
	if filter.HullType != nil {
		db = db.Where("hull_type = ?", *filter.HullType)
	}

	return db
}

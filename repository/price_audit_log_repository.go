package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
)

// PriceAuditLogRepositoryImpl implements the PriceAuditLogRepository interface.
// The table is append-only: there is intentionally no update or delete here.
type PriceAuditLogRepositoryImpl struct {
	*BaseRepository[models.PriceAuditLog, models.PriceAuditLogFilter]
}

// NewPriceAuditLogRepository creates a new audit log repository
func NewPriceAuditLogRepository(db *gorm.DB) PriceAuditLogRepository {
	return &PriceAuditLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceAuditLog, models.PriceAuditLogFilter](db),
	}
}

// ListByDecision retrieves audit entries for a decision, newest first
func (r *PriceAuditLogRepositoryImpl) ListByDecision(ctx context.Context, decisionID uint, limit, offset int) ([]*models.PriceAuditLog, error) {
	filter := models.PriceAuditLogFilter{DecisionID: &decisionID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}

// ByFilter retrieves audit entries based on filter criteria
func (r *PriceAuditLogRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceAuditLogFilter, orderBy string, limit, offset int) ([]*models.PriceAuditLog, error) {
	db := r.getDB(ctx)

	var entries []*models.PriceAuditLog
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

// Count returns the number of audit entries matching the filter
func (r *PriceAuditLogRepositoryImpl) Count(ctx context.Context, filter models.PriceAuditLogFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := r.applyFilter(db.Model(&models.PriceAuditLog{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PriceAuditLogRepositoryImpl) applyFilter(db *gorm.DB, filter models.PriceAuditLogFilter) *gorm.DB {
	if filter.DecisionID != nil {
		db = db.Where("decision_id = ?", *filter.DecisionID)
	}
	if filter.ActorID != nil {
		db = db.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != nil {
		db = db.Where("action = ?", *filter.Action)
	}

	return db
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klb1963/yachtpricer/models"
)

// YachtModelRepositoryImpl implements the YachtModelRepository interface
type YachtModelRepositoryImpl struct {
	db *gorm.DB
}

// NewYachtModelRepository creates a new yacht model repository
func NewYachtModelRepository(db *gorm.DB) YachtModelRepository {
	return &YachtModelRepositoryImpl{db: db}
}

func (r *YachtModelRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// ByVendorID retrieves a cached vendor model by its vendor id, nil when unknown
func (r *YachtModelRepositoryImpl) ByVendorID(ctx context.Context, vendorID int64) (*models.YachtModel, error) {
	db := r.getDB(ctx)

	var model models.YachtModel
	err := db.Where("vendor_id = ?", vendorID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &model, nil
}

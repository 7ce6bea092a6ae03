// Package testing provides test utilities and database setup for testing the pricing system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with the given role in org 1
func (tf *TestFixtures) CreateTestUser(role models.UserRole) (*models.User, error) {
	suffix := rand.Intn(1000000)
	user := &models.User{
		OrgID:    1,
		Email:    fmt.Sprintf("%s.%d@example.com", role, suffix),
		Name:     fmt.Sprintf("Test %s %d", role, suffix),
		Role:     role,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestYacht creates a 46 ft monohull in org 1
func (tf *TestFixtures) CreateTestYacht() (*models.Yacht, error) {
	yacht := &models.Yacht{
		OrgID:          1,
		Name:           fmt.Sprintf("Test Yacht %d", rand.Intn(1000000)),
		HullType:       models.HullTypeMonohull,
		LengthFt:       46.0,
		BuildYear:      2019,
		Cabins:         4,
		Heads:          2,
		BaseLocation:   "Split",
		BasePrice:      3000,
		MaxDiscountPct: 40,
	}
	if err := tf.DB.DB.Create(yacht).Error; err != nil {
		return nil, fmt.Errorf("failed to create test yacht: %w", err)
	}
	return yacht, nil
}

// AssignManager links a manager user to a yacht
func (tf *TestFixtures) AssignManager(yachtID, userID uint) error {
	link := &models.YachtManager{YachtID: yachtID, UserID: userID, CreatedAt: utils.UTCNow()}
	if err := tf.DB.DB.Create(link).Error; err != nil {
		return fmt.Errorf("failed to assign manager: %w", err)
	}
	return nil
}

// AssignOwner links an owner user to a yacht with the given mode
func (tf *TestFixtures) AssignOwner(yachtID, userID uint, mode models.OwnershipMode) error {
	link := &models.YachtOwner{YachtID: yachtID, UserID: userID, Mode: mode, CreatedAt: utils.UTCNow()}
	if err := tf.DB.DB.Create(link).Error; err != nil {
		return fmt.Errorf("failed to assign owner: %w", err)
	}
	return nil
}

// CreatePriceListEntry creates a curated price effective from the given date
func (tf *TestFixtures) CreatePriceListEntry(yachtID uint, effective time.Time, price float64) (*models.PriceListEntry, error) {
	entry := &models.PriceListEntry{
		YachtID:       yachtID,
		EffectiveDate: effective,
		Price:         price,
		Currency:      utils.EURCurrency,
	}
	if err := tf.DB.DB.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create price list entry: %w", err)
	}
	return entry, nil
}

// CreateDraftDecision creates a draft decision for a (yacht, week) pair
func (tf *TestFixtures) CreateDraftDecision(yachtID uint, weekStart time.Time, basePrice float64) (*models.PricingDecision, error) {
	decision := &models.PricingDecision{
		YachtID:   yachtID,
		WeekStart: weekStart,
		BasePrice: basePrice,
		Status:    models.DecisionStatusDraft,
	}
	if err := tf.DB.DB.Create(decision).Error; err != nil {
		return nil, fmt.Errorf("failed to create draft decision: %w", err)
	}
	return decision, nil
}

// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/klb1963/yachtpricer/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// YachtRepository defines operations for fleet yachts
type YachtRepository interface {
	Repository[models.Yacht, models.YachtFilter]
	ListByOrg(ctx context.Context, orgID uint) ([]*models.Yacht, error)
	ManagerLink(ctx context.Context, yachtID, userID uint) (*models.YachtManager, error)
	OwnerLink(ctx context.Context, yachtID, userID uint) (*models.YachtOwner, error)
}

// UserRepository defines operations for workflow actors
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

// CompetitorPriceRepository defines operations for accepted scan rows
type CompetitorPriceRepository interface {
	Repository[models.CompetitorPrice, models.CompetitorPriceFilter]
	ListForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) ([]*models.CompetitorPrice, error)
	DeleteForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) error
}

// CompetitorSnapshotRepository defines operations for derived market summaries
type CompetitorSnapshotRepository interface {
	Repository[models.CompetitorSnapshot, models.CompetitorSnapshotFilter]
	ByKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) (*models.CompetitorSnapshot, error)
	Upsert(ctx context.Context, snapshot *models.CompetitorSnapshot) error
	DeleteForKey(ctx context.Context, yachtID uint, weekStart time.Time, source string) error
}

// PricingDecisionRepository defines operations for pricing decisions
type PricingDecisionRepository interface {
	Repository[models.PricingDecision, models.PricingDecisionFilter]
	ByYachtAndWeek(ctx context.Context, yachtID uint, weekStart time.Time) (*models.PricingDecision, error)
	Update(ctx context.Context, decision *models.PricingDecision) error
}

// PriceAuditLogRepository defines operations for the append-only audit trail
type PriceAuditLogRepository interface {
	Repository[models.PriceAuditLog, models.PriceAuditLogFilter]
	ListByDecision(ctx context.Context, decisionID uint, limit, offset int) ([]*models.PriceAuditLog, error)
}

// FilterConfigRepository defines operations for tolerance profiles
type FilterConfigRepository interface {
	Repository[models.FilterConfig, models.FilterConfigFilter]
	// Resolve returns the profile for the actor: the user-scoped row if
	// present, else the org-scoped row, else the hard defaults.
	Resolve(ctx context.Context, orgID uint, userID *uint) (models.FilterConfig, error)
	UpsertScoped(ctx context.Context, cfg *models.FilterConfig) error
}

// PriceListRepository defines operations for curated price list entries
type PriceListRepository interface {
	Repository[models.PriceListEntry, models.PriceListEntryFilter]
	LatestOnOrBefore(ctx context.Context, yachtID uint, date time.Time) (*models.PriceListEntry, error)
}

// GeoRepository resolves reference geography cached from the provider
type GeoRepository interface {
	LocationByVendorID(ctx context.Context, vendorID int64) (*models.Location, error)
	// CountryForLocation resolves the country for a vendor location id,
	// preferring the location's direct country link over the region chain.
	CountryForLocation(ctx context.Context, vendorID int64) (*models.Country, error)
}

// YachtModelRepository resolves vendor model metadata
type YachtModelRepository interface {
	ByVendorID(ctx context.Context, vendorID int64) (*models.YachtModel, error)
}

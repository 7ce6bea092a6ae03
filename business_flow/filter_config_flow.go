package businessflow

import (
	"context"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/repository"
)

// FilterConfigScope selects which profile row an update targets
type FilterConfigScope string

const (
	FilterConfigScopeUser FilterConfigScope = "user"
	FilterConfigScopeOrg  FilterConfigScope = "org"
)

// FilterConfigFlow reads and writes scoped tolerance profiles
type FilterConfigFlow interface {
	// GetFilterConfig returns the profile the actor's scans will use,
	// resolved user first, then org, then hard defaults.
	GetFilterConfig(ctx context.Context, actor Actor) (*models.FilterConfig, error)
	// UpdateFilterConfig upserts the actor's profile at the given scope.
	// Writing the org profile requires an admin or fleet manager.
	UpdateFilterConfig(ctx context.Context, actor Actor, scope FilterConfigScope, cfg models.FilterConfig) (*models.FilterConfig, error)
}

// FilterConfigFlowImpl implements FilterConfigFlow
type FilterConfigFlowImpl struct {
	userRepo         repository.UserRepository
	filterConfigRepo repository.FilterConfigRepository
}

// NewFilterConfigFlow creates a new filter config flow
func NewFilterConfigFlow(userRepo repository.UserRepository, filterConfigRepo repository.FilterConfigRepository) FilterConfigFlow {
	return &FilterConfigFlowImpl{
		userRepo:         userRepo,
		filterConfigRepo: filterConfigRepo,
	}
}

// GetFilterConfig returns the profile the actor's scans will use
func (s *FilterConfigFlowImpl) GetFilterConfig(ctx context.Context, actor Actor) (*models.FilterConfig, error) {
	user, err := s.userRepo.ByID(ctx, actor.UserID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	cfg, err := s.filterConfigRepo.Resolve(ctx, user.OrgID, &user.ID)
	if err != nil {
		return nil, NewBusinessError("FILTER_CONFIG_RESOLVE_FAILED", "Failed to resolve filter config", err)
	}

	return &cfg, nil
}

// UpdateFilterConfig upserts the actor's profile at the given scope
func (s *FilterConfigFlowImpl) UpdateFilterConfig(ctx context.Context, actor Actor, scope FilterConfigScope, cfg models.FilterConfig) (*models.FilterConfig, error) {
	user, err := s.userRepo.ByID(ctx, actor.UserID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	cfg.OrgID = user.OrgID
	switch scope {
	case FilterConfigScopeUser:
		cfg.UserID = &user.ID
	case FilterConfigScopeOrg:
		if user.Role != models.RoleAdmin && user.Role != models.RoleFleetManager {
			return nil, NewBusinessError("ORG_CONFIG_NOT_ALLOWED", "Only admins and fleet managers may edit the org profile", ErrNotAuthorized)
		}
		cfg.UserID = nil
	default:
		return nil, NewBusinessErrorf("INVALID_SCOPE", "Unknown filter config scope %q", nil, scope)
	}

	if err := s.filterConfigRepo.UpsertScoped(ctx, &cfg); err != nil {
		return nil, NewBusinessError("FILTER_CONFIG_SAVE_FAILED", "Failed to save filter config", err)
	}

	return &cfg, nil
}

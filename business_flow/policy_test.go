package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klb1963/yachtpricer/models"
)

func TestEvaluatePolicy(t *testing.T) {
	managerLink := &models.YachtManager{YachtID: 1, UserID: 2}
	activeOwner := &models.YachtOwner{YachtID: 1, UserID: 3, Mode: models.OwnershipModeActive}
	viewOnlyOwner := &models.YachtOwner{YachtID: 1, UserID: 3, Mode: models.OwnershipModeViewOnly}
	hiddenOwner := &models.YachtOwner{YachtID: 1, UserID: 3, Mode: models.OwnershipModeHidden}

	tests := []struct {
		name        string
		user        *models.User
		managerLink *models.YachtManager
		ownerLink   *models.YachtOwner
		expected    Capabilities
	}{
		{
			name:     "admin bypasses link checks",
			user:     &models.User{ID: 1, Role: models.RoleAdmin},
			expected: Capabilities{CanView: true, CanEditDraft: true, CanSubmit: true, CanApproveOrReject: true},
		},
		{
			name:     "fleet manager bypasses link checks",
			user:     &models.User{ID: 1, Role: models.RoleFleetManager},
			expected: Capabilities{CanView: true, CanEditDraft: true, CanSubmit: true, CanApproveOrReject: true},
		},
		{
			name:        "assigned manager edits and submits but never approves",
			user:        &models.User{ID: 2, Role: models.RoleManager},
			managerLink: managerLink,
			expected:    Capabilities{CanView: true, CanEditDraft: true, CanSubmit: true},
		},
		{
			name:     "unassigned manager gets nothing",
			user:     &models.User{ID: 2, Role: models.RoleManager},
			expected: Capabilities{},
		},
		{
			name:      "active owner views and approves",
			user:      &models.User{ID: 3, Role: models.RoleOwner},
			ownerLink: activeOwner,
			expected:  Capabilities{CanView: true, CanApproveOrReject: true},
		},
		{
			name:      "view-only owner views but cannot approve",
			user:      &models.User{ID: 3, Role: models.RoleOwner},
			ownerLink: viewOnlyOwner,
			expected:  Capabilities{CanView: true},
		},
		{
			name:      "hidden owner still views their own yacht",
			user:      &models.User{ID: 3, Role: models.RoleOwner},
			ownerLink: hiddenOwner,
			expected:  Capabilities{CanView: true},
		},
		{
			name:     "owner without link gets nothing",
			user:     &models.User{ID: 3, Role: models.RoleOwner},
			expected: Capabilities{},
		},
		{
			name:     "nil user gets nothing",
			user:     nil,
			expected: Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluatePolicy(tt.user, tt.managerLink, tt.ownerLink))
		})
	}
}

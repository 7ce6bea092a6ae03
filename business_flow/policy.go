package businessflow

import (
	"github.com/klb1963/yachtpricer/models"
)

// Capabilities is the full permission set an actor holds on one yacht.
// Evaluated fresh per yacht per request; callers must not cache it across
// requests because links and ownership modes change underneath them.
type Capabilities struct {
	CanView            bool `json:"can_view"`
	CanEditDraft       bool `json:"can_edit_draft"`
	CanSubmit          bool `json:"can_submit"`
	CanApproveOrReject bool `json:"can_approve_or_reject"`
}

// EvaluatePolicy derives the actor's capabilities on a yacht from their role
// and their manager/owner links to it. managerLink and ownerLink are nil when
// no link row exists.
//
// admin and fleet_manager bypass link checks entirely. A manager acts only on
// yachts they are assigned to. An owner always sees their yacht, but approves
// and rejects only while their ownership mode is active.
func EvaluatePolicy(user *models.User, managerLink *models.YachtManager, ownerLink *models.YachtOwner) Capabilities {
	if user == nil {
		return Capabilities{}
	}

	switch user.Role {
	case models.RoleAdmin, models.RoleFleetManager:
		return Capabilities{
			CanView:            true,
			CanEditDraft:       true,
			CanSubmit:          true,
			CanApproveOrReject: true,
		}
	case models.RoleManager:
		if managerLink == nil {
			return Capabilities{}
		}
		return Capabilities{
			CanView:      true,
			CanEditDraft: true,
			CanSubmit:    true,
		}
	case models.RoleOwner:
		if ownerLink == nil {
			return Capabilities{}
		}
		return Capabilities{
			CanView:            true,
			CanApproveOrReject: ownerLink.Mode == models.OwnershipModeActive,
		}
	default:
		return Capabilities{}
	}
}

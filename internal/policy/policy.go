// Package policy maps roles to the operations they may perform. All
// authorization decisions go through the capability table here; nothing
// else in the codebase inspects roles to grant access.
package policy

import (
	"errors"

	"github.com/rohan/teamhub/internal/models"
)

// Operation identifies one gated API operation.
type Operation string

const (
	OpViewTeam          Operation = "team.view"
	OpEditSettings      Operation = "team.settings.edit"
	OpAddMember         Operation = "team.members.add"
	OpRemoveMember      Operation = "team.members.remove"
	OpChangeRole        Operation = "team.members.role"
	OpUpdateMemberInfo  Operation = "team.members.update"
	OpViewMembers       Operation = "team.members.view"
	OpSearchMembers     Operation = "team.members.search"
	OpDisableMember     Operation = "team.members.disable"
	OpLeaveTeam         Operation = "team.leave"
	OpTransferOwnership Operation = "team.ownership.transfer"
	OpAnnounce          Operation = "team.announce"
	OpAcceptDeal        Operation = "team.sponsor.accept"
	OpManageInvites     Operation = "team.invites.manage"
)

// ErrUnauthorized is returned when there is no resolvable actor.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the actor's role lacks the capability.
var ErrForbidden = errors.New("forbidden: insufficient role")

// capabilities is the single place permissions live. The owner holds every
// capability except leaving (ownership must be transferred first); admins
// manage members and content; members can only view and leave.
var capabilities = map[models.Role]map[Operation]bool{
	models.RoleOwner: {
		OpViewTeam:          true,
		OpEditSettings:      true,
		OpAddMember:         true,
		OpRemoveMember:      true,
		OpChangeRole:        true,
		OpUpdateMemberInfo:  true,
		OpViewMembers:       true,
		OpSearchMembers:     true,
		OpDisableMember:     true,
		OpTransferOwnership: true,
		OpAnnounce:          true,
		OpAcceptDeal:        true,
		OpManageInvites:     true,
	},
	models.RoleAdmin: {
		OpViewTeam:         true,
		OpEditSettings:     true,
		OpAddMember:        true,
		OpRemoveMember:     true,
		OpUpdateMemberInfo: true,
		OpViewMembers:      true,
		OpSearchMembers:    true,
		OpLeaveTeam:        true,
		OpAnnounce:         true,
		OpAcceptDeal:       true,
	},
	models.RoleMember: {
		OpViewTeam:    true,
		OpViewMembers: true,
		OpLeaveTeam:   true,
	},
}

// Allowed reports whether the role holds the capability.
func Allowed(role models.Role, op Operation) bool {
	return capabilities[role][op]
}

// Authorize gates an operation for an actor. A nil actor yields
// ErrUnauthorized; an actor whose role lacks the capability yields
// ErrForbidden. Pure and total over its inputs.
func Authorize(actor *models.User, op Operation) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if !Allowed(actor.Role, op) {
		return ErrForbidden
	}
	return nil
}

// Package authz is the single authority for role capability decisions.
// It is pure: callers resolve the actor's membership and the group's
// permission flags, and this package answers yes or no. No other package
// hard-codes a role comparison.
package authz

import "waypoint/internal/models"

// Action is a capability a group member may or may not hold.
type Action string

const (
	ActionChat         Action = "chat"
	ActionVote         Action = "vote"
	ActionCreatePoll   Action = "create_poll"
	ActionInvite       Action = "invite"
	ActionCreateStop   Action = "create_stop"
	ActionEditStop     Action = "edit_stop"
	ActionDeleteStop   Action = "delete_stop"
	ActionEditSettings Action = "edit_settings"
	ActionChangeRoles  Action = "change_roles"
	ActionRemoveMember Action = "remove_member"
	ActionDeleteGroup  Action = "delete_group"
)

// Flags are the per-group toggles that widen member and viewer capabilities.
type Flags struct {
	AllowMemberInvite bool
	AllowMemberPoll   bool
	AllowViewerChat   bool
}

// FlagsForGroup extracts the permission flags from a group record.
func FlagsForGroup(g *models.Group) Flags {
	if g == nil {
		return Flags{}
	}
	return Flags{
		AllowMemberInvite: g.AllowMemberInvite,
		AllowMemberPoll:   g.AllowMemberPoll,
		AllowViewerChat:   g.AllowViewerChat,
	}
}

// Can reports whether a holder of role may perform action under the group's
// flags. isOwner applies to resource-scoped actions (stop edit and delete)
// and means the actor created the resource in question.
func Can(role models.GroupRole, action Action, flags Flags, isOwner bool) bool {
	switch role {
	case models.GroupRoleAdmin:
		return true
	case models.GroupRoleMember:
		switch action {
		case ActionChat, ActionVote, ActionCreateStop:
			return true
		case ActionInvite:
			return flags.AllowMemberInvite
		case ActionCreatePoll:
			return flags.AllowMemberPoll
		case ActionEditStop, ActionDeleteStop:
			return isOwner
		default:
			return false
		}
	case models.GroupRoleViewer:
		switch action {
		case ActionVote:
			return true
		case ActionChat:
			return flags.AllowViewerChat
		default:
			return false
		}
	default:
		return false
	}
}

// CanInviteRole reports whether an inviter holding inviterRole may issue an
// invite conferring invitedRole. An invite can never confer a role ranked
// above the inviter's own.
func CanInviteRole(inviterRole, invitedRole models.GroupRole) bool {
	if !invitedRole.Valid() {
		return false
	}
	return invitedRole.Rank() <= inviterRole.Rank()
}

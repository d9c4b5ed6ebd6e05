package authz

import (
	"testing"

	"waypoint/internal/models"
)

func TestCanAdmin(t *testing.T) {
	actions := []Action{
		ActionChat, ActionVote, ActionCreatePoll, ActionInvite,
		ActionCreateStop, ActionEditStop, ActionDeleteStop,
		ActionEditSettings, ActionChangeRoles, ActionRemoveMember,
		ActionDeleteGroup,
	}
	for _, action := range actions {
		if !Can(models.GroupRoleAdmin, action, Flags{}, false) {
			t.Errorf("admin denied %s", action)
		}
	}
}

func TestCanMember(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		flags   Flags
		isOwner bool
		want    bool
	}{
		{"chat", ActionChat, Flags{}, false, true},
		{"vote", ActionVote, Flags{}, false, true},
		{"create stop", ActionCreateStop, Flags{}, false, true},
		{"invite without flag", ActionInvite, Flags{}, false, false},
		{"invite with flag", ActionInvite, Flags{AllowMemberInvite: true}, false, true},
		{"create poll without flag", ActionCreatePoll, Flags{}, false, false},
		{"create poll with flag", ActionCreatePoll, Flags{AllowMemberPoll: true}, false, true},
		{"edit own stop", ActionEditStop, Flags{}, true, true},
		{"edit foreign stop", ActionEditStop, Flags{}, false, false},
		{"delete own stop", ActionDeleteStop, Flags{}, true, true},
		{"delete foreign stop", ActionDeleteStop, Flags{}, false, false},
		{"edit settings", ActionEditSettings, Flags{AllowMemberInvite: true, AllowMemberPoll: true, AllowViewerChat: true}, true, false},
		{"change roles", ActionChangeRoles, Flags{}, true, false},
		{"remove member", ActionRemoveMember, Flags{}, true, false},
		{"delete group", ActionDeleteGroup, Flags{}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Can(models.GroupRoleMember, tt.action, tt.flags, tt.isOwner)
			if got != tt.want {
				t.Errorf("member %s: got %v, want %v", tt.action, got, tt.want)
			}
		})
	}
}

func TestCanViewer(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		flags  Flags
		want   bool
	}{
		{"vote", ActionVote, Flags{}, true},
		{"chat without flag", ActionChat, Flags{}, false},
		{"chat with flag", ActionChat, Flags{AllowViewerChat: true}, true},
		{"invite", ActionInvite, Flags{AllowMemberInvite: true}, false},
		{"create poll", ActionCreatePoll, Flags{AllowMemberPoll: true}, false},
		{"create stop", ActionCreateStop, Flags{}, false},
		{"edit settings", ActionEditSettings, Flags{}, false},
		{"delete group", ActionDeleteGroup, Flags{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Can(models.GroupRoleViewer, tt.action, tt.flags, true)
			if got != tt.want {
				t.Errorf("viewer %s: got %v, want %v", tt.action, got, tt.want)
			}
		})
	}
}

func TestCanUnknownRole(t *testing.T) {
	if Can(models.GroupRole("owner"), ActionChat, Flags{AllowViewerChat: true}, true) {
		t.Error("unknown role should hold no capabilities")
	}
	if Can(models.GroupRole(""), ActionVote, Flags{}, false) {
		t.Error("empty role should hold no capabilities")
	}
}

func TestCanInviteRole(t *testing.T) {
	tests := []struct {
		inviter models.GroupRole
		invited models.GroupRole
		want    bool
	}{
		{models.GroupRoleAdmin, models.GroupRoleAdmin, true},
		{models.GroupRoleAdmin, models.GroupRoleMember, true},
		{models.GroupRoleAdmin, models.GroupRoleViewer, true},
		{models.GroupRoleMember, models.GroupRoleAdmin, false},
		{models.GroupRoleMember, models.GroupRoleMember, true},
		{models.GroupRoleMember, models.GroupRoleViewer, true},
		{models.GroupRoleViewer, models.GroupRoleViewer, true},
		{models.GroupRoleViewer, models.GroupRoleMember, false},
		{models.GroupRoleAdmin, models.GroupRole("superadmin"), false},
	}
	for _, tt := range tests {
		got := CanInviteRole(tt.inviter, tt.invited)
		if got != tt.want {
			t.Errorf("CanInviteRole(%s, %s): got %v, want %v", tt.inviter, tt.invited, got, tt.want)
		}
	}
}

func TestFlagsForGroup(t *testing.T) {
	if got := FlagsForGroup(nil); got != (Flags{}) {
		t.Errorf("nil group: got %+v", got)
	}
	g := &models.Group{AllowMemberInvite: true, AllowViewerChat: true}
	got := FlagsForGroup(g)
	if !got.AllowMemberInvite || got.AllowMemberPoll || !got.AllowViewerChat {
		t.Errorf("got %+v", got)
	}
}

package service

import (
	"context"
	"testing"

	"waypoint/internal/models"
)

func TestGroupServiceCreateGroupValidation(t *testing.T) {
	svc := NewGroupService(noopGroupRepo())

	_, err := svc.CreateGroup(context.Background(), CreateGroupInput{CreatorID: 1})
	wantCode(t, err, models.CodeValidation)

	_, err = svc.CreateGroup(context.Background(), CreateGroupInput{
		CreatorID: 1, Name: "Trip", StartDate: "2026-09-10", EndDate: "2026-09-01",
	})
	wantCode(t, err, models.CodeValidation)

	_, err = svc.CreateGroup(context.Background(), CreateGroupInput{
		CreatorID: 1, Name: "Trip", StartDate: "not-a-date",
	})
	wantCode(t, err, models.CodeValidation)
}

func TestGroupServiceCreateGroupOK(t *testing.T) {
	var gotCreator uint
	groupRepo := noopGroupRepo()
	groupRepo.createGroupFn = func(ctx context.Context, group *models.Group, creatorID uint) error {
		group.ID = 7
		gotCreator = creatorID
		return nil
	}
	svc := NewGroupService(groupRepo)

	group, err := svc.CreateGroup(context.Background(), CreateGroupInput{
		CreatorID: 1, Name: "Summer Road Trip 2026", StartDate: "2026-07-01", EndDate: "2026-07-14",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.ID != 7 || gotCreator != 1 {
		t.Fatalf("unexpected result: group=%#v creator=%d", group, gotCreator)
	}
}

func TestGroupServiceUpdateSettingsAdminOnly(t *testing.T) {
	name := "New name"
	svc := NewGroupService(noopGroupRepo().memberOf(models.GroupRoleMember))
	_, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
		UserID: 10, GroupID: 1, Name: &name,
	})
	wantCode(t, err, models.CodeForbidden)
}

func TestGroupServiceUpdateSettingsPartial(t *testing.T) {
	var saved *models.Group
	groupRepo := noopGroupRepo().memberOf(models.GroupRoleAdmin)
	groupRepo.getGroupFn = func(ctx context.Context, id uint) (*models.Group, error) {
		return &models.Group{ID: id, Name: "Old", AllowViewerChat: false}, nil
	}
	groupRepo.updateGroupFn = func(ctx context.Context, group *models.Group) error {
		saved = group
		return nil
	}
	svc := NewGroupService(groupRepo)

	viewerChat := true
	group, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
		UserID: 10, GroupID: 1, AllowViewerChat: &viewerChat,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !group.AllowViewerChat || group.Name != "Old" {
		t.Fatalf("partial update went wrong: %#v", group)
	}
	if saved == nil {
		t.Fatal("expected the group to be saved")
	}
}

func TestGroupServiceDeleteGroupAdminOnly(t *testing.T) {
	svc := NewGroupService(noopGroupRepo().memberOf(models.GroupRoleMember))
	err := svc.DeleteGroup(context.Background(), 1, 10)
	wantCode(t, err, models.CodeForbidden)
}

func TestGroupServiceLeaveGroupNonMember(t *testing.T) {
	svc := NewGroupService(noopGroupRepo())
	err := svc.LeaveGroup(context.Background(), 1, 10)
	wantCode(t, err, models.CodeForbidden)
}

// Leaving is allowed for every role, including the last admin. A group can
// end up without any admin; nothing promotes a member automatically.
func TestGroupServiceLastAdminMayLeave(t *testing.T) {
	var removed []uint
	groupRepo := noopGroupRepo().memberOf(models.GroupRoleAdmin)
	groupRepo.deleteMembershipsFn = func(ctx context.Context, groupID uint, userIDs []uint) error {
		removed = append(removed, userIDs...)
		return nil
	}
	svc := NewGroupService(groupRepo)

	if err := svc.LeaveGroup(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed) != 1 || removed[0] != 10 {
		t.Fatalf("unexpected removals: %v", removed)
	}
}

func TestGroupServiceGetGroupForUserNonMember(t *testing.T) {
	svc := NewGroupService(noopGroupRepo())
	_, _, err := svc.GetGroupForUser(context.Background(), 1, 10)
	wantCode(t, err, models.CodeForbidden)
}

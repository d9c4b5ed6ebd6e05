// Package service provides application business logic (groups, friends, polls, chat).
package service

import (
	"context"

	"waypoint/internal/authz"
	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// GroupService provides group lifecycle and settings business logic.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// CreateGroupInput is the input for creating a group.
type CreateGroupInput struct {
	CreatorID   uint
	Name        string
	Description string
	StartDate   string
	EndDate     string
}

// UpdateSettingsInput is the input for updating group settings.
type UpdateSettingsInput struct {
	UserID            uint
	GroupID           uint
	Name              *string
	Description       *string
	StartDate         *string
	EndDate           *string
	AllowMemberInvite *bool
	AllowMemberPoll   *bool
	AllowViewerChat   *bool
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup creates a group and makes the creator its admin.
func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Group name is required")
	}
	start, end, err := parseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.groupRepo.CreateGroup(ctx, group, in.CreatorID); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroupForUser returns the group if the user belongs to it, together with
// the caller's membership.
func (s *GroupService) GetGroupForUser(ctx context.Context, groupID, userID uint) (*models.Group, *models.GroupMember, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, nil, err
	}
	if membership == nil {
		return nil, nil, models.NewForbiddenError("You are not a member of this group")
	}
	return group, membership, nil
}

// ListGroups returns all groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	return s.groupRepo.ListGroupsForUser(ctx, userID)
}

// UpdateSettings applies partial updates to a group. Admin only.
func (s *GroupService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.Group, error) {
	group, membership, err := s.GetGroupForUser(ctx, in.GroupID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(membership.Role, authz.ActionEditSettings, authz.FlagsForGroup(group), false) {
		return nil, models.NewForbiddenError("Only admins can change group settings")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Group name is required")
		}
		group.Name = *in.Name
	}
	if in.Description != nil {
		group.Description = *in.Description
	}
	if in.StartDate != nil || in.EndDate != nil {
		startStr := group.StartDate.Format(dateLayout)
		endStr := group.EndDate.Format(dateLayout)
		if in.StartDate != nil {
			startStr = *in.StartDate
		}
		if in.EndDate != nil {
			endStr = *in.EndDate
		}
		start, end, err := parseDateRange(startStr, endStr)
		if err != nil {
			return nil, err
		}
		group.StartDate = start
		group.EndDate = end
	}
	if in.AllowMemberInvite != nil {
		group.AllowMemberInvite = *in.AllowMemberInvite
	}
	if in.AllowMemberPoll != nil {
		group.AllowMemberPoll = *in.AllowMemberPoll
	}
	if in.AllowViewerChat != nil {
		group.AllowViewerChat = *in.AllowViewerChat
	}

	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and everything belonging to it. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID uint) error {
	group, membership, err := s.GetGroupForUser(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !authz.Can(membership.Role, authz.ActionDeleteGroup, authz.FlagsForGroup(group), false) {
		return models.NewForbiddenError("Only admins can delete a group")
	}
	return s.groupRepo.DeleteGroup(ctx, groupID)
}

// LeaveGroup removes the caller's own membership. Any role may leave; the
// group may be left without an admin.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID uint) error {
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	return s.groupRepo.DeleteMemberships(ctx, groupID, []uint{userID})
}

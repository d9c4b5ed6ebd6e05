package service

import (
	"context"

	"waypoint/internal/authz"
	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// MembershipService provides invite and membership management business logic.
type MembershipService struct {
	groupRepo  repository.GroupRepository
	inviteRepo repository.InviteRepository
	userRepo   repository.UserRepository
}

// NewMembershipService returns a new MembershipService.
func NewMembershipService(
	groupRepo repository.GroupRepository,
	inviteRepo repository.InviteRepository,
	userRepo repository.UserRepository,
) *MembershipService {
	return &MembershipService{
		groupRepo:  groupRepo,
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
	}
}

// CreateInvite invites a user into a group with a role. The inviter must hold
// the invite capability and may not confer a role above their own.
func (s *MembershipService) CreateInvite(ctx context.Context, groupID, inviterID, invitedID uint, role models.GroupRole) (*models.Invite, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Unknown role")
	}

	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, inviterID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewForbiddenError("You are not a member of this group")
	}
	if !authz.Can(membership.Role, authz.ActionInvite, authz.FlagsForGroup(group), false) {
		return nil, models.NewForbiddenError("You are not allowed to invite users to this group")
	}
	if !authz.CanInviteRole(membership.Role, role) {
		return nil, models.NewForbiddenError("You cannot invite a user with a role above your own")
	}

	if _, err := s.userRepo.GetByID(ctx, invitedID); err != nil {
		return nil, err
	}

	existing, err := s.groupRepo.GetMembership(ctx, groupID, invitedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User is already a member of this group")
	}

	invite := &models.Invite{
		GroupID:   groupID,
		InviterID: inviterID,
		InvitedID: invitedID,
		Role:      role,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// ListInvites returns the pending invites addressed to the user.
func (s *MembershipService) ListInvites(ctx context.Context, userID uint) ([]models.Invite, error) {
	return s.inviteRepo.ListForUser(ctx, userID)
}

// AcceptInvite turns an invite into a membership carrying the invited role.
func (s *MembershipService) AcceptInvite(ctx context.Context, inviteID, userID uint) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.InvitedID != userID {
		return nil, models.NewForbiddenError("This invite is not addressed to you")
	}
	if err := s.inviteRepo.Accept(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// DeclineInvite discards an invite addressed to the user.
func (s *MembershipService) DeclineInvite(ctx context.Context, inviteID, userID uint) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.InvitedID != userID {
		return models.NewForbiddenError("This invite is not addressed to you")
	}
	return s.inviteRepo.Delete(ctx, invite.ID)
}

// ListMembers returns the group roster and the caller's own membership.
func (s *MembershipService) ListMembers(ctx context.Context, groupID, userID uint) ([]models.GroupMember, *models.GroupMember, error) {
	if _, err := s.groupRepo.GetGroup(ctx, groupID); err != nil {
		return nil, nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, nil, err
	}
	if membership == nil {
		return nil, nil, models.NewForbiddenError("You are not a member of this group")
	}
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return members, membership, nil
}

// ChangeRole sets a member's role. Admin only; self-demotion is blocked so an
// admin cannot silently strip their own access mid-session.
func (s *MembershipService) ChangeRole(ctx context.Context, groupID, actorID, targetID uint, role models.GroupRole) error {
	if !role.Valid() {
		return models.NewValidationError("Unknown role")
	}

	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	if !authz.Can(membership.Role, authz.ActionChangeRoles, authz.FlagsForGroup(group), false) {
		return models.NewForbiddenError("Only admins can change member roles")
	}
	if actorID == targetID {
		return models.NewForbiddenError("You cannot change your own role")
	}

	return s.groupRepo.UpdateMemberRole(ctx, groupID, targetID, role)
}

// RemoveMembers removes a batch of members from the group. Admin only. The
// whole batch succeeds or fails together.
func (s *MembershipService) RemoveMembers(ctx context.Context, groupID, actorID uint, targetIDs []uint) error {
	if len(targetIDs) == 0 {
		return models.NewValidationError("No members selected")
	}

	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	if !authz.Can(membership.Role, authz.ActionRemoveMember, authz.FlagsForGroup(group), false) {
		return models.NewForbiddenError("Only admins can remove members")
	}
	for _, targetID := range targetIDs {
		if targetID == actorID {
			return models.NewValidationError("Use leave to remove yourself from a group")
		}
	}

	return s.groupRepo.DeleteMemberships(ctx, groupID, targetIDs)
}

package server

import (
	"waypoint/internal/middleware"
	"waypoint/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGroupMembers handles GET /api/groups/:id/members
// @Summary List group members
// @Description List a group's members with their roles
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{members=[]models.GroupMember,my_role=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/members [get]
func (s *Server) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, membership, err := s.membershipService.ListMembers(c.Context(), groupID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"members": members,
		"my_role": membership.Role,
	})
}

// ChangeMemberRole handles PUT /api/groups/:id/members/:userId/role
// @Summary Change member role
// @Description Change a member's role (admin only); admins cannot demote themselves below the last admin
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/members/{userId}/role [put]
func (s *Server) ChangeMemberRole(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role models.GroupRole `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.membershipService.ChangeRole(
		c.Context(), groupID, currentUserID(c), targetID, req.Role); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// RemoveMembers handles DELETE /api/groups/:id/members
// @Summary Remove members
// @Description Remove one or more members from the group (admin only)
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/members [delete]
func (s *Server) RemoveMembers(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.membershipService.RemoveMembers(
		c.Context(), groupID, currentUserID(c), req.UserIDs); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Members removed"})
}

// CreateInvite handles POST /api/groups/:id/invites
// @Summary Invite user to group
// @Description Invite a friend to the group with a target role
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Invite
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /groups/{id}/invites [post]
func (s *Server) CreateInvite(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint             `json:"user_id"`
		Role   models.GroupRole `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}
	if req.Role == "" {
		req.Role = models.GroupRoleMember
	}

	invite, err := s.membershipService.CreateInvite(
		c.Context(), groupID, currentUserID(c), req.UserID, req.Role)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.InvitesIssued.WithLabelValues(string(req.Role)).Inc()

	return c.Status(fiber.StatusCreated).JSON(invite)
}

// GetMyInvites handles GET /api/invites
// @Summary List pending invites
// @Description List pending invites addressed to the authenticated user
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{invites=[]models.Invite}
// @Router /invites [get]
func (s *Server) GetMyInvites(c *fiber.Ctx) error {
	invites, err := s.membershipService.ListInvites(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"invites": invites})
}

// AcceptInvite handles POST /api/invites/:id/accept
// @Summary Accept invite
// @Description Accept a pending invite and join the group at the invited role
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Invite
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /invites/{id}/accept [post]
func (s *Server) AcceptInvite(c *fiber.Ctx) error {
	inviteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	invite, err := s.membershipService.AcceptInvite(c.Context(), inviteID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(invite)
}

// DeclineInvite handles POST /api/invites/:id/decline
// @Summary Decline invite
// @Description Decline a pending invite
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /invites/{id}/decline [post]
func (s *Server) DeclineInvite(c *fiber.Ctx) error {
	inviteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.membershipService.DeclineInvite(c.Context(), inviteID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invite declined"})
}

package server

import (
	"waypoint/internal/models"
	"waypoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup handles POST /api/groups
// @Summary Create group
// @Description Create a travel group; the creator becomes its admin
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Router /groups [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.Context(), service.CreateGroupInput{
		CreatorID:   currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetMyGroups handles GET /api/groups
// @Summary List groups
// @Description List the groups the authenticated user belongs to
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{groups=[]models.Group}
// @Router /groups [get]
func (s *Server) GetMyGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup handles GET /api/groups/:id
// @Summary Get group
// @Description Get a group the authenticated user is a member of, with their role
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{group=models.Group,role=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id} [get]
func (s *Server) GetGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, membership, err := s.groupService.GetGroupForUser(c.Context(), groupID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"group": group,
		"role":  membership.Role,
	})
}

// UpdateGroupSettings handles PUT /api/groups/:id/settings
// @Summary Update group settings
// @Description Update group metadata, travel dates, and permission flags (admin only)
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/settings [put]
func (s *Server) UpdateGroupSettings(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name              *string `json:"name"`
		Description       *string `json:"description"`
		StartDate         *string `json:"start_date"`
		EndDate           *string `json:"end_date"`
		AllowMemberInvite *bool   `json:"allow_member_invite"`
		AllowMemberPoll   *bool   `json:"allow_member_poll"`
		AllowViewerChat   *bool   `json:"allow_viewer_chat"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateSettings(c.Context(), service.UpdateSettingsInput{
		UserID:            currentUserID(c),
		GroupID:           groupID,
		Name:              req.Name,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AllowMemberInvite: req.AllowMemberInvite,
		AllowMemberPoll:   req.AllowMemberPoll,
		AllowViewerChat:   req.AllowViewerChat,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/groups/:id
// @Summary Delete group
// @Description Delete a group and everything in it (admin only)
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id} [delete]
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.groupService.DeleteGroup(c.Context(), groupID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// LeaveGroup handles POST /api/groups/:id/leave
// @Summary Leave group
// @Description Leave a group; the last admin cannot leave
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /groups/{id}/leave [post]
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.groupService.LeaveGroup(c.Context(), groupID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group"})
}

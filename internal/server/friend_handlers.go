package server

import (
	"waypoint/internal/models"
	"waypoint/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetFriends handles GET /api/friends
// @Summary List friends
// @Description List the authenticated user's confirmed friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{friends=[]models.User}
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.ListFriends(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

// SendFriendRequest handles POST /api/friends/requests
// @Summary Send friend request
// @Description Send a friend request identified by username and friend code
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{result=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/requests [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req struct {
		Username   string `json:"username"`
		FriendCode string `json:"friend_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.FriendCode != "" {
		if err := validation.ValidateFriendCode(req.FriendCode); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	result, err := s.friendService.SendFriendRequest(
		c.Context(), currentUserID(c), req.Username, req.FriendCode)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

// GetIncomingRequests handles GET /api/friends/requests
// @Summary List incoming friend requests
// @Description List unanswered friend requests addressed to the authenticated user
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{requests=[]models.FriendRequest}
// @Router /friends/requests [get]
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.ListIncomingRequests(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// Unfriend handles DELETE /api/friends/:userId
// @Summary Remove friend
// @Description Sever the friendship in both directions; a no-op when no friendship exists
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /friends/{userId} [delete]
func (s *Server) Unfriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.Unfriend(c.Context(), currentUserID(c), targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

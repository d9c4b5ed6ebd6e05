package server

import (
	"time"

	"waypoint/internal/middleware"
	"waypoint/internal/models"
	"waypoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePoll handles POST /api/groups/:id/polls
// @Summary Create poll
// @Description Create a poll with its options in the group
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/polls [post]
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title         string     `json:"title"`
		Options       []string   `json:"options"`
		AllowMultiple bool       `json:"allow_multiple"`
		EndTime       *time.Time `json:"end_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(c.Context(), service.CreatePollInput{
		UserID:        currentUserID(c),
		GroupID:       groupID,
		Title:         req.Title,
		Options:       req.Options,
		AllowMultiple: req.AllowMultiple,
		EndTime:       req.EndTime,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

// GetPolls handles GET /api/groups/:id/polls
// @Summary List polls
// @Description List the group's polls with tallies and the caller's votes
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{polls=[]service.PollView}
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/polls [get]
func (s *Server) GetPolls(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	polls, err := s.pollService.ListPolls(c.Context(), groupID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"polls": polls})
}

// CastVote handles POST /api/groups/:id/polls/:pollId/votes
// @Summary Cast vote
// @Description Vote for an option; in single-choice polls the previous vote moves
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/polls/{pollId}/votes [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pollID, err := s.parseID(c, "pollId")
	if err != nil {
		return nil
	}

	var req struct {
		OptionID uint `json:"option_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OptionID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("option_id is required"))
	}

	poll, err := s.pollService.CastVote(
		c.Context(), groupID, pollID, req.OptionID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	mode := "single"
	if poll.AllowMultiple {
		mode = "multiple"
	}
	middleware.PollVotesCast.WithLabelValues(mode).Inc()

	return c.JSON(poll)
}

// RetractVote handles DELETE /api/groups/:id/polls/:pollId/votes/:optionId
// @Summary Retract vote
// @Description Remove the caller's vote for an option; retracting a vote that does not exist is a no-op
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/polls/{pollId}/votes/{optionId} [delete]
func (s *Server) RetractVote(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pollID, err := s.parseID(c, "pollId")
	if err != nil {
		return nil
	}
	optionID, err := s.parseID(c, "optionId")
	if err != nil {
		return nil
	}

	poll, err := s.pollService.RetractVote(
		c.Context(), groupID, pollID, optionID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(poll)
}

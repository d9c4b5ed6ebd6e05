package server

import (
	"context"
	"encoding/json"
	"log"

	"waypoint/internal/models"
	"waypoint/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// GetMessages handles GET /api/groups/:id/messages
// @Summary Get chat history
// @Description Get the group's recent messages oldest-first
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{messages=[]models.RenderedMessage}
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/messages [get]
func (s *Server) GetMessages(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	pagination := parsePagination(c, 50)

	messages, err := s.chatService.LoadHistory(
		c.Context(), groupID, currentUserID(c), pagination.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// PostMessage handles POST /api/groups/:id/messages
// @Summary Post chat message
// @Description Post a message over HTTP; it is persisted and broadcast to live subscribers
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.RenderedMessage
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /groups/{id}/messages [post]
func (s *Server) PostMessage(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Contents string `json:"contents"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rendered, err := s.chatService.PostMessage(
		c.Context(), groupID, currentUserID(c), req.Contents)
	if err != nil {
		return respondServiceError(c, err)
	}
	if rendered == nil {
		// Whitespace-only messages are dropped silently.
		return c.SendStatus(fiber.StatusNoContent)
	}

	s.broadcastChatMessage(c.Context(), groupID, *rendered)

	return c.Status(fiber.StatusCreated).JSON(rendered)
}

// broadcastChatMessage fans a stored message out to this process's hub and,
// when Redis is wired, to every other process via pub/sub.
func (s *Server) broadcastChatMessage(ctx context.Context, groupID uint, rendered models.RenderedMessage) {
	envelope := notifications.ChatMessage{
		Type:    "new_message",
		GroupID: groupID,
		Payload: rendered,
	}

	if s.notifier != nil {
		payload, err := json.Marshal(envelope)
		if err != nil {
			log.Printf("failed to marshal chat message for group %d: %v", groupID, err)
			return
		}
		if err := s.notifier.PublishGroupMessage(ctx, groupID, string(payload)); err != nil {
			log.Printf("failed to publish chat message for group %d: %v", groupID, err)
			// Fall through to local delivery so this process's subscribers
			// still hear the message.
		} else {
			return
		}
	}

	if s.chatHub != nil {
		s.chatHub.BroadcastToGroup(groupID, envelope)
	}
}

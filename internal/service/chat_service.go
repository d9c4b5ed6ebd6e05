package service

import (
	"context"
	"strings"

	"waypoint/internal/authz"
	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// ChatService provides group chat business logic. Broadcast itself lives in
// the notifications hub; this layer persists, gates, and renders messages.
type ChatService struct {
	chatRepo  repository.ChatRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

const maxMessageContentLen = 10000

// NewChatService returns a new ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CanJoin reports whether the user may subscribe to the group's channel.
// Any member, including viewers, may listen.
func (s *ChatService) CanJoin(ctx context.Context, groupID, userID uint) error {
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	return nil
}

// LoadHistory returns the group's messages oldest-first, rendered for display.
func (s *ChatService) LoadHistory(ctx context.Context, groupID, userID uint, limit int) ([]models.RenderedMessage, error) {
	if err := s.CanJoin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, groupID, limit)
	if err != nil {
		return nil, err
	}

	rendered := make([]models.RenderedMessage, 0, len(messages))
	for i := range messages {
		rendered = append(rendered, renderMessage(&messages[i]))
	}
	return rendered, nil
}

// PostMessage persists a chat message and returns it rendered for broadcast.
// A whitespace-only message is dropped silently: (nil, nil) means nothing was
// stored and nothing should be sent. Viewer gating is enforced here on every
// send, not just at channel join.
func (s *ChatService) PostMessage(ctx context.Context, groupID, userID uint, contents string) (*models.RenderedMessage, error) {
	contents = strings.TrimSpace(contents)
	if contents == "" {
		return nil, nil
	}
	if len(contents) > maxMessageContentLen {
		return nil, models.NewValidationError("Message too long (max 10000 characters)")
	}

	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewForbiddenError("You are not a member of this group")
	}
	if !authz.Can(membership.Role, authz.ActionChat, authz.FlagsForGroup(group), false) {
		return nil, models.NewForbiddenError("Viewers cannot send messages in this group")
	}

	message := &models.Message{
		GroupID:  groupID,
		UserID:   userID,
		Contents: contents,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if message.User == nil {
		if sender, err := s.userRepo.GetByID(ctx, userID); err == nil {
			message.User = sender
		}
	}

	rendered := renderMessage(message)
	return &rendered, nil
}

func renderMessage(m *models.Message) models.RenderedMessage {
	displayName := ""
	if m.User != nil {
		displayName = m.User.Name()
	}
	return models.RenderedMessage{
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		DisplayName: displayName,
		Contents:    m.Contents,
		Timestamp:   m.CreatedAt,
	}
}

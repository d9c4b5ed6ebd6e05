package repository

import (
	"context"

	"waypoint/internal/cache"
	"waypoint/internal/models"
	"waypoint/internal/observability"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for group chat messages.
type ChatRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, groupID uint, limit int) ([]models.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	defer observability.TrackQuery("create", "messages")()
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessageHistory(ctx, message.GroupID)
	return nil
}

// ListMessages returns messages oldest-first. A limit <= 0 means no limit;
// when limited, the most recent messages win but order stays ascending.
func (r *chatRepository) ListMessages(ctx context.Context, groupID uint, limit int) ([]models.Message, error) {
	defer observability.TrackQuery("list", "messages")()
	var messages []models.Message

	query := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("User")

	if limit > 0 {
		sub := r.db.Model(&models.Message{}).
			Select("id").
			Where("group_id = ?", groupID).
			Order("created_at DESC, id DESC").
			Limit(limit)
		query = query.Where("id IN (?)", sub)
	}

	if err := query.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

package repository

import (
	"context"
	"errors"

	"waypoint/internal/cache"
	"waypoint/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines persistence operations for groups and memberships.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group, creatorID uint) error
	GetGroup(ctx context.Context, id uint) (*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id uint) error
	ListGroupsForUser(ctx context.Context, userID uint) ([]models.Group, error)
	GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error)
	ListMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error)
	UpdateMemberRole(ctx context.Context, groupID, userID uint, role models.GroupRole) error
	DeleteMemberships(ctx context.Context, groupID uint, userIDs []uint) error
	CountAdmins(ctx context.Context, groupID uint) (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository returns a new GroupRepository implementation.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// CreateGroup inserts the group and its creator's admin membership atomically.
func (r *groupRepository) CreateGroup(ctx context.Context, group *models.Group, creatorID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := &models.GroupMember{
			GroupID: group.ID,
			UserID:  creatorID,
			Role:    models.GroupRoleAdmin,
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	key := cache.GroupKey(id)

	err := cache.Aside(ctx, key, &group, cache.GroupTTL, func() error {
		if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Group", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) UpdateGroup(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, group.ID)
	return nil
}

// DeleteGroup removes a group and all records hanging off it. The cascade is
// explicit so it behaves identically on every backend regardless of foreign
// key enforcement.
func (r *groupRepository) DeleteGroup(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id IN (?)",
			tx.Model(&models.Poll{}).Select("id").Where("group_id = ?", id),
		).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id IN (?)",
			tx.Model(&models.Poll{}).Select("id").Where("group_id = ?", id),
		).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Poll{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("stop_id IN (?)",
			tx.Model(&models.Stop{}).Select("id").Where("group_id = ?", id),
		).Delete(&models.StopFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Stop{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, id)
	cache.InvalidateMessageHistory(ctx, id)
	return nil
}

func (r *groupRepository) ListGroupsForUser(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.start_date ASC, groups.id ASC").
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// GetMembership returns nil without error when the user is not a member.
func (r *groupRepository) GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	var membership models.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("User").
		Order("user_id ASC").
		Find(&members).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}

func (r *groupRepository) UpdateMemberRole(ctx context.Context, groupID, userID uint, role models.GroupRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Membership", userID)
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

// DeleteMemberships removes the given members in one transaction. All of the
// target rows must exist or the whole batch is rolled back.
func (r *groupRepository) DeleteMemberships(ctx context.Context, groupID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, userID := range userIDs {
			result := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
				Delete(&models.GroupMember{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.NewNotFoundError("Membership", userID)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

func (r *groupRepository) CountAdmins(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

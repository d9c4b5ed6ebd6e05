package repository

import (
	"context"
	"errors"

	"waypoint/internal/cache"
	"waypoint/internal/models"

	"gorm.io/gorm"
)

// InviteRepository defines persistence operations for group invites.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id uint) (*models.Invite, error)
	GetForUser(ctx context.Context, groupID, invitedID uint) (*models.Invite, error)
	ListForUser(ctx context.Context, invitedID uint) ([]models.Invite, error)
	Delete(ctx context.Context, id uint) error
	Accept(ctx context.Context, invite *models.Invite) error
}

type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository returns a new InviteRepository implementation.
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An invite for this user already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inviteRepository) GetByID(ctx context.Context, id uint) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Inviter").
		First(&invite, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Invite", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &invite, nil
}

// GetForUser returns nil without error when no invite exists.
func (r *inviteRepository) GetForUser(ctx context.Context, groupID, invitedID uint) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND invited_id = ?", groupID, invitedID).
		First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &invite, nil
}

func (r *inviteRepository) ListForUser(ctx context.Context, invitedID uint) ([]models.Invite, error) {
	var invites []models.Invite
	if err := r.db.WithContext(ctx).
		Where("invited_id = ?", invitedID).
		Preload("Group").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invites, nil
}

func (r *inviteRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Invite{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Accept converts the invite into a membership and consumes it atomically.
func (r *inviteRepository) Accept(ctx context.Context, invite *models.Invite) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membership := &models.GroupMember{
			GroupID: invite.GroupID,
			UserID:  invite.InvitedID,
			Role:    invite.Role,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invite{}, invite.ID).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User is already a member of this group")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, invite.GroupID)
	return nil
}

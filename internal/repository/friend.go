package repository

import (
	"context"

	"waypoint/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines persistence operations for the friendship graph.
// A confirmed friendship is a pair of reciprocal friend_requests rows; a
// pending request is a single unreciprocated row.
type FriendRepository interface {
	CreateRequest(ctx context.Context, requesterID, requestedID uint) error
	HasEdge(ctx context.Context, requesterID, requestedID uint) (bool, error)
	AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	DeleteEdges(ctx context.Context, userID1, userID2 uint) error
	ListFriends(ctx context.Context, userID uint) ([]models.User, error)
	ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository returns a new FriendRepository implementation.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, requesterID, requestedID uint) error {
	request := &models.FriendRequest{
		RequesterID: requesterID,
		RequestedID: requestedID,
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Friend request already sent")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// HasEdge reports whether a directed request row exists.
func (r *friendRepository) HasEdge(ctx context.Context, requesterID, requestedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("requester_id = ? AND requested_id = ?", requesterID, requestedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AreFriends reports whether both directed edges exist between the two users.
func (r *friendRepository) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("friend_requests a").
		Joins("JOIN friend_requests b ON b.requester_id = a.requested_id AND b.requested_id = a.requester_id").
		Where("a.requester_id = ? AND a.requested_id = ?", userID1, userID2).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// DeleteEdges removes both directions between the two users in one statement.
// Deleting zero rows is not an error.
func (r *friendRepository) DeleteEdges(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.FriendRequest{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListFriends returns users with a reciprocal edge pair shared with userID.
func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friend_requests a ON a.requested_id = users.id AND a.requester_id = ?", userID).
		Joins("JOIN friend_requests b ON b.requester_id = users.id AND b.requested_id = ?", userID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// ListIncoming returns unreciprocated requests addressed to userID.
func (r *friendRepository) ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("requested_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM friend_requests b WHERE b.requester_id = friend_requests.requested_id AND b.requested_id = friend_requests.requester_id)").
		Preload("Requester").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

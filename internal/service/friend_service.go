package service

import (
	"context"

	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
// Friendship is the symmetric closure of directed friend requests: two users
// are friends once each has sent the other a request.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// Results of SendFriendRequest.
const (
	FriendResultConfirmed   = "confirmed"
	FriendResultRequestSent = "request_sent"
)

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest sends a request to the user identified by username. The
// friend code must match the target's code, which keeps requests opt-in. When
// the target has already sent a request the other way the friendship is
// confirmed immediately.
func (s *FriendService) SendFriendRequest(ctx context.Context, requesterID uint, username, friendCode string) (string, error) {
	if username == "" || friendCode == "" {
		return "", models.NewValidationError("Username and friend code are required")
	}

	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", models.NewNotFoundError("User", username)
	}
	if target.FriendCode != friendCode {
		return "", models.NewForbiddenError("Friend code does not match")
	}
	if target.ID == requesterID {
		return "", models.NewValidationError("Cannot send a friend request to yourself")
	}

	if err := s.friendRepo.CreateRequest(ctx, requesterID, target.ID); err != nil {
		return "", err
	}

	reciprocal, err := s.friendRepo.HasEdge(ctx, target.ID, requesterID)
	if err != nil {
		return "", err
	}
	if reciprocal {
		return FriendResultConfirmed, nil
	}
	return FriendResultRequestSent, nil
}

// Unfriend severs the relationship in both directions. Removing a friendship
// that does not exist is a no-op.
func (s *FriendService) Unfriend(ctx context.Context, userID, targetID uint) error {
	return s.friendRepo.DeleteEdges(ctx, userID, targetID)
}

// ListFriends returns the user's confirmed friends.
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// ListIncomingRequests returns unanswered requests addressed to the user.
func (s *FriendService) ListIncomingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.ListIncoming(ctx, userID)
}

// AreFriends reports whether the two users share a confirmed friendship.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, otherID)
}

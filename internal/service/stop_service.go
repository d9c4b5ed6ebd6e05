package service

import (
	"context"
	"strings"

	"waypoint/internal/authz"
	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// StopService provides itinerary stop business logic.
type StopService struct {
	groupRepo repository.GroupRepository
	stopRepo  repository.StopRepository
}

// StopInput is the input for creating or updating a stop.
type StopInput struct {
	UserID      uint
	GroupID     uint
	Title       string
	Description string
	StartTime   string
	EndTime     string
	Lat         float64
	Lng         float64
}

// NewStopService returns a new StopService.
func NewStopService(groupRepo repository.GroupRepository, stopRepo repository.StopRepository) *StopService {
	return &StopService{groupRepo: groupRepo, stopRepo: stopRepo}
}

// CreateStop adds a stop to the group's itinerary. Members and admins only.
func (s *StopService) CreateStop(ctx context.Context, in StopInput) (*models.Stop, error) {
	group, membership, err := s.requireMembership(ctx, in.GroupID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(membership.Role, authz.ActionCreateStop, authz.FlagsForGroup(group), false) {
		return nil, models.NewForbiddenError("You are not allowed to add stops in this group")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Stop title is required")
	}
	start, end, err := parseDateRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	stop := &models.Stop{
		GroupID:     in.GroupID,
		CreatorID:   in.UserID,
		Title:       title,
		Description: in.Description,
		StartTime:   start,
		EndTime:     end,
		Lat:         in.Lat,
		Lng:         in.Lng,
	}
	if err := s.stopRepo.Create(ctx, stop); err != nil {
		return nil, err
	}
	return stop, nil
}

// ListStops returns the group's stops ordered by start time.
func (s *StopService) ListStops(ctx context.Context, groupID, userID uint) ([]models.Stop, error) {
	if _, _, err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.stopRepo.ListForGroup(ctx, groupID)
}

// UpdateStop edits a stop. The creator may edit their own; admins may edit any.
func (s *StopService) UpdateStop(ctx context.Context, stopID uint, in StopInput) (*models.Stop, error) {
	stop, err := s.loadEditableStop(ctx, stopID, in.GroupID, in.UserID, authz.ActionEditStop)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		stop.Title = title
	}
	if in.Description != "" {
		stop.Description = in.Description
	}
	if in.StartTime != "" || in.EndTime != "" {
		start, end, err := parseDateRange(in.StartTime, in.EndTime)
		if err != nil {
			return nil, err
		}
		if !start.IsZero() {
			stop.StartTime = start
		}
		if !end.IsZero() {
			stop.EndTime = end
		}
	}
	if in.Lat != 0 || in.Lng != 0 {
		stop.Lat = in.Lat
		stop.Lng = in.Lng
	}

	if err := s.stopRepo.Update(ctx, stop); err != nil {
		return nil, err
	}
	return stop, nil
}

// DeleteStop removes a stop and its files. Creator or admin only.
func (s *StopService) DeleteStop(ctx context.Context, groupID, stopID, userID uint) error {
	if _, err := s.loadEditableStop(ctx, stopID, groupID, userID, authz.ActionDeleteStop); err != nil {
		return err
	}
	return s.stopRepo.Delete(ctx, stopID)
}

func (s *StopService) requireMembership(ctx context.Context, groupID, userID uint) (*models.Group, *models.GroupMember, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, nil, err
	}
	if membership == nil {
		return nil, nil, models.NewForbiddenError("You are not a member of this group")
	}
	return group, membership, nil
}

func (s *StopService) loadEditableStop(ctx context.Context, stopID, groupID, userID uint, action authz.Action) (*models.Stop, error) {
	group, membership, err := s.requireMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	stop, err := s.stopRepo.GetByID(ctx, stopID)
	if err != nil {
		return nil, err
	}
	if stop.GroupID != groupID {
		return nil, models.NewNotFoundError("Stop", stopID)
	}
	isOwner := stop.CreatorID == userID
	if !authz.Can(membership.Role, action, authz.FlagsForGroup(group), isOwner) {
		return nil, models.NewForbiddenError("You can only modify your own stops")
	}
	return stop, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"waypoint/internal/authz"
	"waypoint/internal/models"
	"waypoint/internal/repository"
)

// PollService provides poll creation and voting business logic.
type PollService struct {
	groupRepo repository.GroupRepository
	pollRepo  repository.PollRepository
	now       func() time.Time
}

// CreatePollInput is the input for creating a poll.
type CreatePollInput struct {
	UserID        uint
	GroupID       uint
	Title         string
	Options       []string
	AllowMultiple bool
	EndTime       *time.Time
}

// PollView pairs a poll with the option IDs the caller has voted for.
// WinnerOptionID is set only once the poll has closed.
type PollView struct {
	Poll           *models.Poll `json:"poll"`
	CallerVotes    []uint       `json:"caller_votes"`
	WinnerOptionID *uint        `json:"winner_option_id,omitempty"`
}

// NewPollService returns a new PollService.
func NewPollService(groupRepo repository.GroupRepository, pollRepo repository.PollRepository) *PollService {
	return &PollService{
		groupRepo: groupRepo,
		pollRepo:  pollRepo,
		now:       time.Now,
	}
}

// CreatePoll creates a poll with its options in one write.
func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	group, membership, err := s.requireMembership(ctx, in.GroupID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(membership.Role, authz.ActionCreatePoll, authz.FlagsForGroup(group), false) {
		return nil, models.NewForbiddenError("You are not allowed to create polls in this group")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Poll title is required")
	}
	options := make([]models.PollOption, 0, len(in.Options))
	for _, contents := range in.Options {
		contents = strings.TrimSpace(contents)
		if contents == "" {
			continue
		}
		options = append(options, models.PollOption{Contents: contents})
	}
	if len(options) < 2 {
		return nil, models.NewValidationError("A poll needs at least two options")
	}

	poll := &models.Poll{
		GroupID:       in.GroupID,
		CreatorID:     in.UserID,
		Title:         title,
		AllowMultiple: in.AllowMultiple,
		EndTime:       in.EndTime,
		Options:       options,
	}
	if err := s.pollRepo.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// CastVote records a vote for an option. Voting twice for the same option is
// reported as already-in-state so callers can treat it as success. On
// single-choice polls the new vote replaces any previous one.
func (s *PollService) CastVote(ctx context.Context, groupID, pollID, optionID, voterID uint) (*models.Poll, error) {
	poll, err := s.loadGroupPoll(ctx, groupID, pollID, voterID)
	if err != nil {
		return nil, err
	}
	if poll.Closed(s.now()) {
		return nil, models.NewConflictError("Poll has ended")
	}

	option, err := s.pollRepo.GetOption(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if option.PollID != poll.ID {
		return nil, models.NewNotFoundError("Poll option", optionID)
	}

	already, err := s.pollRepo.CastVote(ctx, poll.ID, optionID, voterID, poll.AllowMultiple)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewAlreadyInStateError("Vote already recorded")
	}
	return s.pollRepo.GetPoll(ctx, poll.ID)
}

// RetractVote removes a vote for an option. Retracting an absent vote is
// reported as already-in-state.
func (s *PollService) RetractVote(ctx context.Context, groupID, pollID, optionID, voterID uint) (*models.Poll, error) {
	poll, err := s.loadGroupPoll(ctx, groupID, pollID, voterID)
	if err != nil {
		return nil, err
	}
	if poll.Closed(s.now()) {
		return nil, models.NewConflictError("Poll has ended")
	}

	removed, err := s.pollRepo.RetractVote(ctx, poll.ID, optionID, voterID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewAlreadyInStateError("No vote to retract")
	}
	return s.pollRepo.GetPoll(ctx, poll.ID)
}

// ListPolls returns the group's polls with tallies plus the caller's votes.
func (s *PollService) ListPolls(ctx context.Context, groupID, userID uint) ([]PollView, error) {
	if _, _, err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	polls, err := s.pollRepo.ListPolls(ctx, groupID)
	if err != nil {
		return nil, err
	}
	votes, err := s.pollRepo.ListVoterVotes(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	votesByPoll := make(map[uint][]uint, len(votes))
	for _, vote := range votes {
		votesByPoll[vote.PollID] = append(votesByPoll[vote.PollID], vote.OptionID)
	}

	views := make([]PollView, 0, len(polls))
	for i := range polls {
		view := PollView{
			Poll:        &polls[i],
			CallerVotes: votesByPoll[polls[i].ID],
		}
		if polls[i].Closed(s.now()) {
			if winner := WinningOption(&polls[i]); winner != nil {
				view.WinnerOptionID = &winner.ID
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// WinningOption returns the leading option of a poll. Ties go to the option
// listed first. Returns nil for a poll with no options.
func WinningOption(poll *models.Poll) *models.PollOption {
	var winner *models.PollOption
	for i := range poll.Options {
		option := &poll.Options[i]
		if winner == nil || option.VoteCount > winner.VoteCount {
			winner = option
		}
	}
	return winner
}

func (s *PollService) requireMembership(ctx context.Context, groupID, userID uint) (*models.Group, *models.GroupMember, error) {
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

func (s *PollService) loadGroupPoll(ctx context.Context, groupID, pollID, userID uint) (*models.Poll, error) {
	if _, _, err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	poll, err := s.pollRepo.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.GroupID != groupID {
		return nil, models.NewNotFoundError("Poll", pollID)
	}
	return poll, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"waypoint/internal/models"
)

func TestPollServiceCreatePollRequiresFlag(t *testing.T) {
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleMember), noopPollRepo())
	_, err := svc.CreatePoll(context.Background(), CreatePollInput{
		UserID: 10, GroupID: 1, Title: "Dinner?", Options: []string{"A", "B"},
	})
	wantCode(t, err, models.CodeForbidden)
}

func TestPollServiceCreatePollViewerAlwaysForbidden(t *testing.T) {
	groupRepo := noopGroupRepo().memberOf(models.GroupRoleViewer)
	groupRepo.getGroupFn = func(ctx context.Context, id uint) (*models.Group, error) {
		return &models.Group{ID: id, AllowMemberPoll: true}, nil
	}
	svc := NewPollService(groupRepo, noopPollRepo())

	_, err := svc.CreatePoll(context.Background(), CreatePollInput{
		UserID: 10, GroupID: 1, Title: "Dinner?", Options: []string{"A", "B"},
	})
	wantCode(t, err, models.CodeForbidden)
}

func TestPollServiceCreatePollValidation(t *testing.T) {
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleAdmin), noopPollRepo())

	_, err := svc.CreatePoll(context.Background(), CreatePollInput{
		UserID: 10, GroupID: 1, Title: "   ", Options: []string{"A", "B"},
	})
	wantCode(t, err, models.CodeValidation)

	// Blank options do not count toward the minimum of two.
	_, err = svc.CreatePoll(context.Background(), CreatePollInput{
		UserID: 10, GroupID: 1, Title: "Dinner?", Options: []string{"A", "  "},
	})
	wantCode(t, err, models.CodeValidation)
}

func TestPollServiceCastVoteClosedPoll(t *testing.T) {
	ended := time.Now().Add(-time.Hour)
	pollRepo := noopPollRepo()
	pollRepo.getPollFn = func(ctx context.Context, id uint) (*models.Poll, error) {
		return &models.Poll{ID: id, GroupID: 1, EndTime: &ended}, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleViewer), pollRepo)

	_, err := svc.CastVote(context.Background(), 1, 5, 7, 10)
	wantCode(t, err, models.CodeConflict)
}

func TestPollServiceCastVoteForeignOption(t *testing.T) {
	pollRepo := noopPollRepo()
	pollRepo.getPollFn = func(ctx context.Context, id uint) (*models.Poll, error) {
		return &models.Poll{ID: id, GroupID: 1}, nil
	}
	pollRepo.getOptionFn = func(ctx context.Context, optionID uint) (*models.PollOption, error) {
		return &models.PollOption{ID: optionID, PollID: 999}, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleMember), pollRepo)

	_, err := svc.CastVote(context.Background(), 1, 5, 7, 10)
	wantCode(t, err, models.CodeNotFound)
}

func TestPollServiceCastVoteAlreadyVoted(t *testing.T) {
	pollRepo := noopPollRepo()
	pollRepo.getPollFn = func(ctx context.Context, id uint) (*models.Poll, error) {
		return &models.Poll{ID: id, GroupID: 1}, nil
	}
	pollRepo.getOptionFn = func(ctx context.Context, optionID uint) (*models.PollOption, error) {
		return &models.PollOption{ID: optionID, PollID: 5}, nil
	}
	pollRepo.castVoteFn = func(context.Context, uint, uint, uint, bool) (bool, error) {
		return true, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleViewer), pollRepo)

	_, err := svc.CastVote(context.Background(), 1, 5, 7, 10)
	wantCode(t, err, models.CodeAlreadyInState)
}

func TestPollServiceCastVoteNonMember(t *testing.T) {
	svc := NewPollService(noopGroupRepo(), noopPollRepo())
	_, err := svc.CastVote(context.Background(), 1, 5, 7, 10)
	wantCode(t, err, models.CodeForbidden)
}

func TestPollServiceRetractAbsentVote(t *testing.T) {
	pollRepo := noopPollRepo()
	pollRepo.getPollFn = func(ctx context.Context, id uint) (*models.Poll, error) {
		return &models.Poll{ID: id, GroupID: 1}, nil
	}
	pollRepo.retractVoteFn = func(context.Context, uint, uint, uint) (bool, error) {
		return false, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleMember), pollRepo)

	_, err := svc.RetractVote(context.Background(), 1, 5, 7, 10)
	wantCode(t, err, models.CodeAlreadyInState)
}

func TestPollServiceListPollsJoinsCallerVotes(t *testing.T) {
	pollRepo := noopPollRepo()
	pollRepo.listPollsFn = func(ctx context.Context, groupID uint) ([]models.Poll, error) {
		return []models.Poll{{ID: 5, GroupID: groupID}, {ID: 6, GroupID: groupID}}, nil
	}
	pollRepo.listVoterVotesFn = func(context.Context, uint, uint) ([]models.PollVote, error) {
		return []models.PollVote{{PollID: 5, OptionID: 51, VoterID: 10}}, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleViewer), pollRepo)

	views, err := svc.ListPolls(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(views))
	}
	if len(views[0].CallerVotes) != 1 || views[0].CallerVotes[0] != 51 {
		t.Fatalf("unexpected caller votes: %#v", views[0].CallerVotes)
	}
	if len(views[1].CallerVotes) != 0 {
		t.Fatalf("expected no votes on second poll, got %#v", views[1].CallerVotes)
	}
}

func TestPollServiceListPollsMarksWinnerOnceClosed(t *testing.T) {
	ended := time.Now().Add(-time.Hour)
	pollRepo := noopPollRepo()
	pollRepo.listPollsFn = func(ctx context.Context, groupID uint) ([]models.Poll, error) {
		return []models.Poll{
			{ID: 5, GroupID: groupID, EndTime: &ended, Options: []models.PollOption{
				{ID: 51, VoteCount: 1},
				{ID: 52, VoteCount: 4},
			}},
			{ID: 6, GroupID: groupID, Options: []models.PollOption{
				{ID: 61, VoteCount: 9},
			}},
		}, nil
	}
	svc := NewPollService(noopGroupRepo().memberOf(models.GroupRoleViewer), pollRepo)

	views, err := svc.ListPolls(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].WinnerOptionID == nil || *views[0].WinnerOptionID != 52 {
		t.Fatalf("expected option 52 as winner, got %#v", views[0].WinnerOptionID)
	}
	// An open poll has no winner yet, whatever the tallies say.
	if views[1].WinnerOptionID != nil {
		t.Fatalf("expected no winner for open poll, got %v", *views[1].WinnerOptionID)
	}
}

func TestWinningOptionTieGoesToFirst(t *testing.T) {
	poll := &models.Poll{
		Options: []models.PollOption{
			{ID: 1, Contents: "A", VoteCount: 3},
			{ID: 2, Contents: "B", VoteCount: 3},
			{ID: 3, Contents: "C", VoteCount: 1},
		},
	}
	winner := WinningOption(poll)
	if winner == nil || winner.ID != 1 {
		t.Fatalf("expected option 1 to win the tie, got %#v", winner)
	}

	if WinningOption(&models.Poll{}) != nil {
		t.Fatal("expected nil winner for a poll without options")
	}
}

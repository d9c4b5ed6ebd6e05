package repository

import (
	"context"
	"testing"

	"waypoint/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPoll(t *testing.T, allowMultiple bool) (PollRepository, *models.Poll, []uint) {
	t.Helper()
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	groupRepo := NewGroupRepository(db)
	group := createTestGroup(t, db, groupRepo, "Trip", creator.ID)

	repo := NewPollRepository(db)
	poll := &models.Poll{
		GroupID:       group.ID,
		CreatorID:     creator.ID,
		Title:         "Where to eat?",
		AllowMultiple: allowMultiple,
		Options: []models.PollOption{
			{Contents: "Ramen"},
			{Contents: "Pizza"},
			{Contents: "Tapas"},
		},
	}
	require.NoError(t, repo.CreatePoll(context.Background(), poll))

	loaded, err := repo.GetPoll(context.Background(), poll.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Options, 3)

	optionIDs := make([]uint, len(loaded.Options))
	for i, opt := range loaded.Options {
		optionIDs[i] = opt.ID
	}
	return repo, loaded, optionIDs
}

func tallies(t *testing.T, repo PollRepository, pollID uint) map[uint]int64 {
	t.Helper()
	poll, err := repo.GetPoll(context.Background(), pollID)
	require.NoError(t, err)
	out := make(map[uint]int64, len(poll.Options))
	for _, opt := range poll.Options {
		out[opt.ID] = opt.VoteCount
	}
	return out
}

func TestPollRepository_CastVote(t *testing.T) {
	ctx := context.Background()

	t.Run("first vote increments the tally", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		already, err := repo.CastVote(ctx, poll.ID, opts[0], 42, true)
		require.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, int64(1), tallies(t, repo, poll.ID)[opts[0]])
	})

	t.Run("repeat vote on same option is a no-op", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		_, err := repo.CastVote(ctx, poll.ID, opts[0], 42, true)
		require.NoError(t, err)
		already, err := repo.CastVote(ctx, poll.ID, opts[0], 42, true)
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, int64(1), tallies(t, repo, poll.ID)[opts[0]])
	})

	t.Run("single choice retracts the prior vote", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, false)

		_, err := repo.CastVote(ctx, poll.ID, opts[0], 42, false)
		require.NoError(t, err)
		already, err := repo.CastVote(ctx, poll.ID, opts[1], 42, false)
		require.NoError(t, err)
		assert.False(t, already)

		counts := tallies(t, repo, poll.ID)
		assert.Equal(t, int64(0), counts[opts[0]])
		assert.Equal(t, int64(1), counts[opts[1]])

		votes, err := repo.ListVoterVotes(ctx, poll.GroupID, 42)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
		assert.Equal(t, opts[1], votes[0].OptionID)
	})

	t.Run("multiple choice accumulates votes", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		_, err := repo.CastVote(ctx, poll.ID, opts[0], 42, true)
		require.NoError(t, err)
		_, err = repo.CastVote(ctx, poll.ID, opts[1], 42, true)
		require.NoError(t, err)

		votes, err := repo.ListVoterVotes(ctx, poll.GroupID, 42)
		require.NoError(t, err)
		assert.Len(t, votes, 2)
	})

	t.Run("tallies stay consistent with vote rows", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		voters := []uint{10, 11, 12, 13}
		for i, voter := range voters {
			_, err := repo.CastVote(ctx, poll.ID, opts[i%2], voter, true)
			require.NoError(t, err)
		}
		_, err := repo.RetractVote(ctx, poll.ID, opts[0], voters[0])
		require.NoError(t, err)

		counts := tallies(t, repo, poll.ID)
		var total int64
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, int64(3), total)
	})
}

func TestPollRepository_RetractVote(t *testing.T) {
	ctx := context.Background()

	t.Run("retract removes the vote and decrements", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		_, err := repo.CastVote(ctx, poll.ID, opts[0], 42, true)
		require.NoError(t, err)

		removed, err := repo.RetractVote(ctx, poll.ID, opts[0], 42)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, int64(0), tallies(t, repo, poll.ID)[opts[0]])
	})

	t.Run("retracting an absent vote is a no-op", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		removed, err := repo.RetractVote(ctx, poll.ID, opts[0], 42)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, int64(0), tallies(t, repo, poll.ID)[opts[0]])
	})

	t.Run("tally never goes below zero", func(t *testing.T) {
		repo, poll, opts := setupPoll(t, true)

		removed, err := repo.RetractVote(ctx, poll.ID, opts[2], 99)
		require.NoError(t, err)
		assert.False(t, removed)
		counts := tallies(t, repo, poll.ID)
		assert.GreaterOrEqual(t, counts[opts[2]], int64(0))
	})
}

func TestPollRepository_ListPolls(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	groupRepo := NewGroupRepository(db)
	group := createTestGroup(t, db, groupRepo, "Trip", creator.ID)
	repo := NewPollRepository(db)

	for _, title := range []string{"Day one", "Day two"} {
		poll := &models.Poll{
			GroupID:   group.ID,
			CreatorID: creator.ID,
			Title:     title,
			Options:   []models.PollOption{{Contents: "A"}, {Contents: "B"}},
		}
		require.NoError(t, repo.CreatePoll(ctx, poll))
	}

	polls, err := repo.ListPolls(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, polls, 2)
	for _, p := range polls {
		assert.Len(t, p.Options, 2)
	}
}

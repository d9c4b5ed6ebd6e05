package repository

import (
	"context"
	"errors"

	"waypoint/internal/models"
	"waypoint/internal/observability"

	"gorm.io/gorm"
)

// PollRepository defines persistence operations for polls and votes.
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPoll(ctx context.Context, id uint) (*models.Poll, error)
	GetOption(ctx context.Context, optionID uint) (*models.PollOption, error)
	ListPolls(ctx context.Context, groupID uint) ([]models.Poll, error)
	ListVoterVotes(ctx context.Context, groupID, voterID uint) ([]models.PollVote, error)
	CastVote(ctx context.Context, pollID, optionID, voterID uint, allowMultiple bool) (already bool, err error)
	RetractVote(ctx context.Context, pollID, optionID, voterID uint) (removed bool, err error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository returns a new PollRepository implementation.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

// CreatePoll inserts the poll together with its options. GORM persists the
// Options association in the same transaction as the parent row.
func (r *pollRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if err := r.db.WithContext(ctx).Create(poll).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pollRepository) GetPoll(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.id ASC")
		}).
		First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poll", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &poll, nil
}

func (r *pollRepository) GetOption(ctx context.Context, optionID uint) (*models.PollOption, error) {
	var option models.PollOption
	if err := r.db.WithContext(ctx).First(&option, optionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poll option", optionID)
		}
		return nil, models.NewInternalError(err)
	}
	return &option, nil
}

func (r *pollRepository) ListPolls(ctx context.Context, groupID uint) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&polls).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return polls, nil
}

func (r *pollRepository) ListVoterVotes(ctx context.Context, groupID, voterID uint) ([]models.PollVote, error) {
	var votes []models.PollVote
	if err := r.db.WithContext(ctx).
		Where("voter_id = ? AND poll_id IN (?)",
			voterID,
			r.db.Model(&models.Poll{}).Select("id").Where("group_id = ?", groupID),
		).
		Find(&votes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return votes, nil
}

// CastVote records a vote and keeps vote_count in step, all inside one
// transaction. Voting for an option the voter already picked reports
// already=true and changes nothing. On single-choice polls any prior votes by
// the voter are retracted first so at most one remains.
func (r *pollRepository) CastVote(ctx context.Context, pollID, optionID, voterID uint, allowMultiple bool) (bool, error) {
	defer observability.TrackQuery("cast_vote", "poll_votes")()
	already := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PollVote{}).
			Where("poll_id = ? AND option_id = ? AND voter_id = ?", pollID, optionID, voterID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			already = true
			return nil
		}

		if !allowMultiple {
			var prior []models.PollVote
			if err := tx.Where("poll_id = ? AND voter_id = ?", pollID, voterID).
				Find(&prior).Error; err != nil {
				return err
			}
			for _, vote := range prior {
				if err := tx.Where("poll_id = ? AND option_id = ? AND voter_id = ?",
					vote.PollID, vote.OptionID, vote.VoterID).
					Delete(&models.PollVote{}).Error; err != nil {
					return err
				}
				if err := decrementVoteCount(tx, vote.OptionID); err != nil {
					return err
				}
			}
		}

		vote := &models.PollVote{PollID: pollID, OptionID: optionID, VoterID: voterID}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.PollOption{}).
			Where("id = ?", optionID).
			Update("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return already, nil
}

// RetractVote removes a vote if present. Retracting a vote that does not
// exist reports removed=false and changes nothing.
func (r *pollRepository) RetractVote(ctx context.Context, pollID, optionID, voterID uint) (bool, error) {
	defer observability.TrackQuery("retract_vote", "poll_votes")()
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("poll_id = ? AND option_id = ? AND voter_id = ?", pollID, optionID, voterID).
			Delete(&models.PollVote{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return decrementVoteCount(tx, optionID)
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed, nil
}

// decrementVoteCount lowers the cached tally without going below zero.
func decrementVoteCount(tx *gorm.DB, optionID uint) error {
	return tx.Model(&models.PollOption{}).
		Where("id = ?", optionID).
		Update("vote_count", gorm.Expr("CASE WHEN vote_count > 0 THEN vote_count - 1 ELSE 0 END")).Error
}

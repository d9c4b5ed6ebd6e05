package models

import "time"

// Poll is a group decision with a fixed option list. A poll with a nil
// EndTime stays open indefinitely; once EndTime passes the poll is closed and
// votes can no longer be cast or retracted.
type Poll struct {
	ID            uint         `gorm:"primaryKey" json:"poll_id"`
	GroupID       uint         `gorm:"not null;index" json:"group_id"`
	Group         *Group       `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	CreatorID     uint         `gorm:"not null" json:"creator_id"`
	Creator       *User        `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Title         string       `gorm:"size:200;not null" json:"title"`
	AllowMultiple bool         `gorm:"not null;default:false" json:"allow_multiple"`
	EndTime       *time.Time   `json:"end_time"`
	Options       []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Poll) TableName() string {
	return "polls"
}

// Closed reports whether the poll no longer accepts vote mutations at the
// given instant.
func (p *Poll) Closed(now time.Time) bool {
	return p.EndTime != nil && !p.EndTime.After(now)
}

// PollOption is one choice in a poll. VoteCount is a denormalized cache of
// the matching PollVote rows; every vote mutation updates it in the same
// transaction.
type PollOption struct {
	ID        uint   `gorm:"primaryKey" json:"option_id"`
	PollID    uint   `gorm:"not null;index" json:"poll_id"`
	Contents  string `gorm:"size:200;not null" json:"contents"`
	VoteCount int64  `gorm:"not null;default:0" json:"vote_count"`
}

// TableName specifies the table name for GORM.
func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote records one voter's choice of one option.
type PollVote struct {
	PollID    uint      `gorm:"primaryKey;autoIncrement:false" json:"poll_id"`
	OptionID  uint      `gorm:"primaryKey;autoIncrement:false" json:"option_id"`
	VoterID   uint      `gorm:"primaryKey;autoIncrement:false" json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PollVote) TableName() string {
	return "poll_votes"
}

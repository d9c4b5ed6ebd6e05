package models

import "time"

// Message is one chat message in a group channel. Messages are append-only
// and replayed in timestamp order when a client loads history.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Contents  string    `gorm:"type:text;not null" json:"contents"`
	CreatedAt time.Time `json:"timestamp"`
}

// TableName specifies the table name for GORM.
func (Message) TableName() string {
	return "messages"
}

// RenderedMessage is the server-rendered chat event payload delivered to
// channel subscribers. The display name and timestamp are resolved
// server-side; clients never supply them.
type RenderedMessage struct {
	GroupID     uint      `json:"group_id"`
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Contents    string    `json:"contents"`
	Timestamp   time.Time `json:"timestamp"`
}

package models

import "time"

// FriendRequest is a single directed edge from requester to requested.
// There is deliberately no friendship table: two users are friends iff both
// directed edges exist. A lone edge is a pending request.
type FriendRequest struct {
	RequesterID uint      `gorm:"primaryKey;autoIncrement:false" json:"requester_id"`
	Requester   *User     `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	RequestedID uint      `gorm:"primaryKey;autoIncrement:false" json:"requested_id"`
	Requested   *User     `gorm:"foreignKey:RequestedID;constraint:OnDelete:CASCADE" json:"requested,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

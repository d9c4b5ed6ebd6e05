package models

import "time"

// Invite is a pending offer of membership in a group at a given role.
// At most one pending invite exists per (group, invited user) pair; accepting
// converts it into a GroupMember row and declining deletes it.
type Invite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_invites_group_invited" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	InviterID uint      `gorm:"not null" json:"inviter_id"`
	Inviter   *User     `gorm:"foreignKey:InviterID;constraint:OnDelete:CASCADE" json:"inviter,omitempty"`
	InvitedID uint      `gorm:"not null;uniqueIndex:idx_invites_group_invited" json:"invited_id"`
	Invited   *User     `gorm:"foreignKey:InvitedID;constraint:OnDelete:CASCADE" json:"invited,omitempty"`
	Role      GroupRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Invite) TableName() string {
	return "invites"
}

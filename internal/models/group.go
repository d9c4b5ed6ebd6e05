package models

import "time"

// GroupRole defines a member's role within a travel group.
type GroupRole string

const (
	// GroupRoleAdmin may manage settings, roles, invites, and the group itself.
	GroupRoleAdmin GroupRole = "admin"
	// GroupRoleMember may contribute content; some actions are settings-gated.
	GroupRoleMember GroupRole = "member"
	// GroupRoleViewer has read access and may vote on polls.
	GroupRoleViewer GroupRole = "viewer"
)

// Valid reports whether r is one of the three known roles.
func (r GroupRole) Valid() bool {
	switch r {
	case GroupRoleAdmin, GroupRoleMember, GroupRoleViewer:
		return true
	}
	return false
}

// Rank returns the position of the role in the hierarchy: viewer(1) <
// member(2) < admin(3). Unknown roles rank 0.
func (r GroupRole) Rank() int {
	switch r {
	case GroupRoleAdmin:
		return 3
	case GroupRoleMember:
		return 2
	case GroupRoleViewer:
		return 1
	}
	return 0
}

// Group represents a travel group: a set of members planning one trip together.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`

	// Settings-gated permissions for non-admin roles.
	AllowMemberInvite bool `gorm:"not null;default:false" json:"allow_member_invite"`
	AllowMemberPoll   bool `gorm:"not null;default:false" json:"allow_member_poll"`
	AllowViewerChat   bool `gorm:"not null;default:false" json:"allow_viewer_chat"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}

// GroupMember maps users to groups and tracks their role.
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role      GroupRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (GroupMember) TableName() string {
	return "group_members"
}

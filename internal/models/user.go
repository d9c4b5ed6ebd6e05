// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered traveler.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:40;not null;uniqueIndex" json:"username"`
	Password       string    `gorm:"not null" json:"-"`
	DisplayName    string    `gorm:"size:80" json:"display_name"`
	Bio            string    `gorm:"type:text" json:"bio"`
	BannerColor    string    `gorm:"size:9;not null;default:'#cccccc'" json:"banner_color"`
	ProfilePicture string    `gorm:"size:255" json:"profile_picture"`
	FriendCode     string    `gorm:"size:14;not null;uniqueIndex" json:"friend_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Name returns the name shown in chat and member lists: the display name
// when set, otherwise the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

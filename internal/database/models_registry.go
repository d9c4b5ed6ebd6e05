package database

import "waypoint/internal/models"

// AllModels returns the authoritative set of schema-managed GORM models.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Invite{},
		&models.FriendRequest{},
		&models.Message{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Stop{},
		&models.StopFile{},
	}
}

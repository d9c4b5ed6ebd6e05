package repository

import (
	"context"
	"testing"

	"waypoint/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Password:    "x",
		DisplayName: username,
		FriendCode:  "CODE-" + username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, repo GroupRepository, name string, creatorID uint) *models.Group {
	t.Helper()
	group := &models.Group{Name: name}
	if err := repo.CreateGroup(context.Background(), group, creatorID); err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return group
}

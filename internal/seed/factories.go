// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"waypoint/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "TravelDemo#2025!"

// CreateUser persists a user with the shared demo password and a random
// friend code.
func (f *Factory) CreateUser(username, displayName string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Password:       string(hashed),
		DisplayName:    displayName,
		Bio:            gofakeit.Sentence(8),
		BannerColor:    gofakeit.HexColor(),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		FriendCode:     f.FriendCode(),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFakeUser persists a user with generated identity details.
func (f *Factory) CreateFakeUser() (*models.User, error) {
	username := strings.ToLower(fmt.Sprintf("%s_%s%d",
		gofakeit.FirstName(), gofakeit.LastName(), f.r.Intn(1000)))
	return f.CreateUser(username, gofakeit.Name())
}

// FriendCode generates a random XXXX-XXXX-XXXX code.
func (f *Factory) FriendCode() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(alphabet[f.r.Intn(len(alphabet))])
	}
	return sb.String()
}

// CreateGroup persists a group with its creator as admin.
func (f *Factory) CreateGroup(creator *models.User, name, description string, start, end time.Time) (*models.Group, error) {
	group := &models.Group{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
	}
	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}

	member := &models.GroupMember{
		GroupID: group.ID,
		UserID:  creator.ID,
		Role:    models.GroupRoleAdmin,
	}
	if err := f.db.Create(member).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// AddMember adds a user to a group at the given role.
func (f *Factory) AddMember(group *models.Group, user *models.User, role models.GroupRole) error {
	return f.db.Create(&models.GroupMember{
		GroupID: group.ID,
		UserID:  user.ID,
		Role:    role,
	}).Error
}

// Befriend records a confirmed friendship: a request in each direction.
func (f *Factory) Befriend(a, b *models.User) error {
	edges := []models.FriendRequest{
		{RequesterID: a.ID, RequestedID: b.ID},
		{RequesterID: b.ID, RequestedID: a.ID},
	}
	for i := range edges {
		if err := f.db.Create(&edges[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateMessage persists a chat message with a created_at spread over the
// past few days.
func (f *Factory) CreateMessage(group *models.Group, sender *models.User, contents string) error {
	msg := &models.Message{
		GroupID:  group.ID,
		UserID:   sender.ID,
		Contents: contents,
	}
	msg.CreatedAt = time.Now().
		Add(-time.Duration(f.r.Intn(72)) * time.Hour).
		Add(-time.Duration(f.r.Intn(60)) * time.Minute)
	return f.db.Create(msg).Error
}

// CreatePoll persists a poll with options and a handful of votes.
func (f *Factory) CreatePoll(group *models.Group, creator *models.User, title string, options []string, voters []*models.User) (*models.Poll, error) {
	poll := &models.Poll{
		GroupID:       group.ID,
		CreatorID:     creator.ID,
		Title:         title,
		AllowMultiple: f.r.Intn(2) == 0,
	}
	if err := f.db.Create(poll).Error; err != nil {
		return nil, err
	}

	rows := make([]models.PollOption, 0, len(options))
	for _, contents := range options {
		rows = append(rows, models.PollOption{PollID: poll.ID, Contents: contents})
	}
	if err := f.db.Create(&rows).Error; err != nil {
		return nil, err
	}

	for _, voter := range voters {
		option := rows[f.r.Intn(len(rows))]
		vote := models.PollVote{PollID: poll.ID, OptionID: option.ID, VoterID: voter.ID}
		if err := f.db.Create(&vote).Error; err != nil {
			return nil, err
		}
		if err := f.db.Model(&models.PollOption{}).
			Where("id = ?", option.ID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
			return nil, err
		}
	}
	return poll, nil
}

// CreateStop persists an itinerary stop.
func (f *Factory) CreateStop(group *models.Group, creator *models.User, title string, start time.Time) error {
	end := start.Add(time.Duration(1+f.r.Intn(4)) * time.Hour)
	return f.db.Create(&models.Stop{
		GroupID:     group.ID,
		CreatorID:   creator.ID,
		Title:       title,
		Description: gofakeit.Sentence(10),
		StartTime:   start,
		EndTime:     end,
		Lat:         gofakeit.Latitude(),
		Lng:         gofakeit.Longitude(),
	}).Error
}

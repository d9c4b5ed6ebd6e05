package seed

import (
	"fmt"
	"log"
	"time"

	"waypoint/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumExtraUsers int
	ShouldClean   bool
}

// Demo populates the database with a small set of recognizable travelers and
// groups plus generated filler accounts. Running it twice without cleaning
// fails on the unique username constraint, which is intentional.
func Demo(db *gorm.DB, opts Options) error {
	log.Printf("Seeding demo data with %d extra users...", opts.NumExtraUsers)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	// Named demo travelers
	names := map[string]string{
		"peter": "Peter",
		"jori":  "Jori",
		"joris": "Joris",
		"mike":  "Mike",
		"keti":  "Keti",
		"pew":   "Pew",
	}
	users := make(map[string]*models.User, len(names))
	for username, display := range names {
		user, err := f.CreateUser(username, display)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", username, err)
		}
		users[username] = user
	}
	log.Printf("Created %d demo users", len(users))

	// Everyone in the core group knows each other
	core := []*models.User{users["peter"], users["jori"], users["joris"], users["mike"]}
	for i := 0; i < len(core); i++ {
		for j := i + 1; j < len(core); j++ {
			if err := f.Befriend(core[i], core[j]); err != nil {
				return fmt.Errorf("failed to befriend users: %w", err)
			}
		}
	}
	// Keti has a pending request toward Pew
	if err := db.Create(&models.FriendRequest{
		RequesterID: users["keti"].ID,
		RequestedID: users["pew"].ID,
	}).Error; err != nil {
		return fmt.Errorf("failed to create pending request: %w", err)
	}

	if err := seedGroups(f, users); err != nil {
		return err
	}

	// Generated filler accounts
	for i := 0; i < opts.NumExtraUsers; i++ {
		if _, err := f.CreateFakeUser(); err != nil {
			log.Printf("Failed to create filler user: %v", err)
		}
	}

	log.Println("Demo seeding completed")
	return nil
}

func seedGroups(f *Factory, users map[string]*models.User) error {
	summerStart := time.Date(time.Now().Year(), time.July, 4, 0, 0, 0, 0, time.UTC)

	type groupSpec struct {
		name        string
		description string
		admin       *models.User
		members     []*models.User
		viewers     []*models.User
	}

	specs := []groupSpec{
		{
			name:        "UHasselt Adventure Buddies",
			description: "Weekend trips around Limburg and beyond.",
			admin:       users["peter"],
			members:     []*models.User{users["jori"], users["joris"]},
			viewers:     []*models.User{users["keti"]},
		},
		{
			name:        "Summer Road Trip 2025",
			description: "Two weeks, one van, zero plan.",
			admin:       users["jori"],
			members:     []*models.User{users["peter"], users["mike"]},
		},
		{
			name:        "Mountain Lovers",
			description: "Alpine hikes and cabin weekends.",
			admin:       users["mike"],
			members:     []*models.User{users["joris"]},
		},
	}

	for gi, spec := range specs {
		start := summerStart.AddDate(0, gi, 0)
		group, err := f.CreateGroup(spec.admin, spec.name, spec.description, start, start.AddDate(0, 0, 14))
		if err != nil {
			return fmt.Errorf("failed to create group %q: %w", spec.name, err)
		}
		for _, m := range spec.members {
			if err := f.AddMember(group, m, models.GroupRoleMember); err != nil {
				return fmt.Errorf("failed to add member to %q: %w", spec.name, err)
			}
		}
		for _, v := range spec.viewers {
			if err := f.AddMember(group, v, models.GroupRoleViewer); err != nil {
				return fmt.Errorf("failed to add viewer to %q: %w", spec.name, err)
			}
		}

		// Some chat history
		senders := append([]*models.User{spec.admin}, spec.members...)
		for i := 0; i < 12; i++ {
			sender := senders[i%len(senders)]
			if err := f.CreateMessage(group, sender, gofakeit.Sentence(12)); err != nil {
				return fmt.Errorf("failed to create message in %q: %w", spec.name, err)
			}
		}

		// One open poll per group with a few votes
		if _, err := f.CreatePoll(group, spec.admin,
			"Where do we stop for lunch?",
			[]string{"Roadside diner", "Picnic in the park", "Whatever we find"},
			senders); err != nil {
			return fmt.Errorf("failed to create poll in %q: %w", spec.name, err)
		}

		// A short itinerary
		for d, title := range []string{"Check in at the hostel", "City walking tour", "Sunrise viewpoint"} {
			if err := f.CreateStop(group, spec.admin, title, start.AddDate(0, 0, d).Add(9*time.Hour)); err != nil {
				return fmt.Errorf("failed to create stop in %q: %w", spec.name, err)
			}
		}
	}

	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE stop_files, stops, poll_votes, poll_options, polls, messages, invites, group_members, groups, friend_requests, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

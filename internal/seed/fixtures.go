package seed

import (
	"fmt"
	"os"
	"time"

	"waypoint/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures describes extra seed data loaded from a YAML file, so demo
// environments can add travelers and groups without editing Go code.
type Fixtures struct {
	Users  []FixtureUser  `yaml:"users"`
	Groups []FixtureGroup `yaml:"groups"`
}

// FixtureUser is one traveler in a fixtures file.
type FixtureUser struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
}

// FixtureGroup is one group in a fixtures file. Members reference users by
// username; the first admin listed becomes the creator.
type FixtureGroup struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	StartDate   string              `yaml:"start_date"`
	EndDate     string              `yaml:"end_date"`
	Members     []FixtureMembership `yaml:"members"`
}

// FixtureMembership binds a fixture user to a group with a role.
type FixtureMembership struct {
	Username string `yaml:"username"`
	Role     string `yaml:"role"`
}

func parseFixtureDates(startStr, endStr string) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	start, err := time.Parse(layout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", startStr)
	}
	end, err := time.Parse(layout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", endStr)
	}
	return start, end, nil
}

// LoadFixtures parses a fixtures YAML file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures file: %w", err)
	}
	return &fx, nil
}

// Apply inserts the fixture users and groups. Every group needs at least one
// admin member; unknown usernames and roles are reported, not skipped.
func (fx *Fixtures) Apply(db *gorm.DB) error {
	f := NewFactory(db)

	users := make(map[string]*models.User, len(fx.Users))
	for _, fu := range fx.Users {
		user, err := f.CreateUser(fu.Username, fu.DisplayName)
		if err != nil {
			return fmt.Errorf("failed to create fixture user %s: %w", fu.Username, err)
		}
		users[fu.Username] = user
	}

	for _, fg := range fx.Groups {
		start, end, err := parseFixtureDates(fg.StartDate, fg.EndDate)
		if err != nil {
			return fmt.Errorf("group %q: %w", fg.Name, err)
		}

		var creator *models.User
		for _, m := range fg.Members {
			if models.GroupRole(m.Role) == models.GroupRoleAdmin {
				creator = users[m.Username]
				break
			}
		}
		if creator == nil {
			return fmt.Errorf("group %q has no admin member", fg.Name)
		}

		group, err := f.CreateGroup(creator, fg.Name, fg.Description, start, end)
		if err != nil {
			return fmt.Errorf("failed to create fixture group %s: %w", fg.Name, err)
		}

		for _, m := range fg.Members {
			member, ok := users[m.Username]
			if !ok {
				return fmt.Errorf("group %q references unknown user %q", fg.Name, m.Username)
			}
			if member.ID == creator.ID {
				continue
			}
			role := models.GroupRole(m.Role)
			switch role {
			case models.GroupRoleAdmin, models.GroupRoleMember, models.GroupRoleViewer:
			default:
				return fmt.Errorf("group %q member %q has unknown role %q", fg.Name, m.Username, m.Role)
			}
			if err := f.AddMember(group, member, role); err != nil {
				return fmt.Errorf("failed to add %s to %s: %w", m.Username, fg.Name, err)
			}
		}
	}
	return nil
}

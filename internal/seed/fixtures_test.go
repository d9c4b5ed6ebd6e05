package seed

import (
	"os"
	"path/filepath"
	"testing"

	"waypoint/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `
users:
  - username: wout
    display_name: Wout
  - username: lene
    display_name: Lene
groups:
  - name: Ardennes Weekend
    description: Hiking and kayaking
    start_date: 2025-10-03
    end_date: 2025-10-05
    members:
      - username: wout
        role: admin
      - username: lene
        role: viewer
`

func writeFixturesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAndApplyFixtures(t *testing.T) {
	db := setupTestDB(t)

	fx, err := LoadFixtures(writeFixturesFile(t, fixturesYAML))
	require.NoError(t, err)
	require.Len(t, fx.Users, 2)
	require.Len(t, fx.Groups, 1)

	require.NoError(t, fx.Apply(db))

	var group models.Group
	require.NoError(t, db.Where("name = ?", "Ardennes Weekend").First(&group).Error)

	var members []models.GroupMember
	require.NoError(t, db.Where("group_id = ?", group.ID).Find(&members).Error)
	require.Len(t, members, 2)

	roles := map[models.GroupRole]int{}
	for _, m := range members {
		roles[m.Role]++
	}
	assert.Equal(t, 1, roles[models.GroupRoleAdmin])
	assert.Equal(t, 1, roles[models.GroupRoleViewer])
}

func TestApplyFixturesRejectsAdminlessGroup(t *testing.T) {
	db := setupTestDB(t)

	fx := &Fixtures{
		Users: []FixtureUser{{Username: "nomad", DisplayName: "Nomad"}},
		Groups: []FixtureGroup{{
			Name:      "Drifters",
			StartDate: "2025-11-01",
			EndDate:   "2025-11-03",
			Members:   []FixtureMembership{{Username: "nomad", Role: "member"}},
		}},
	}
	err := fx.Apply(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no admin member")
}

func TestLoadFixturesBadYAML(t *testing.T) {
	_, err := LoadFixtures(writeFixturesFile(t, "users: [not: {valid"))
	assert.Error(t, err)
}

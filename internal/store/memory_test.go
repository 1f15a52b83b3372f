package store_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/store"
)

func strPtr(s string) *string { return &s }

func TestFindUser_NotFound(t *testing.T) {
	m := store.NewMemory()
	_, err := m.FindUser("missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSaveUser_RoundTrip(t *testing.T) {
	m := store.NewMemory()
	m.SaveUser(&models.User{ID: "u1", Name: "Alice", Username: "alice", Role: models.RoleMember})

	u, err := m.FindUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestFindTeam_NotFound(t *testing.T) {
	m := store.NewMemory()
	_, err := m.FindTeam("missing")
	assert.ErrorIs(t, err, store.ErrTeamNotFound)
}

func TestSearchTeams_CaseInsensitive(t *testing.T) {
	m := store.NewMemory()
	m.SaveTeam(&models.Team{ID: "t1", Name: "Test Team One", OwnerID: "u1"})
	m.SaveTeam(&models.Team{ID: "t2", Name: "Another Team", OwnerID: "u2"})

	matches := m.SearchTeams("test")
	require.Len(t, matches, 1)
	assert.Equal(t, "Test Team One", matches[0].Name)

	assert.Len(t, m.SearchTeams("TEAM"), 2)
	assert.Empty(t, m.SearchTeams("nope"))
}

func TestSearchUsersByUsername_CaseInsensitive(t *testing.T) {
	m := store.NewMemory()
	m.SaveUser(&models.User{ID: "u1", Username: "AryanDev"})
	m.SaveUser(&models.User{ID: "u2", Username: "someoneelse"})

	matches := m.SearchUsersByUsername("aryan")
	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].ID)
}

func TestCountMembers(t *testing.T) {
	m := store.NewMemory()
	m.SaveUser(&models.User{ID: "u1", TeamID: strPtr("t1")})
	m.SaveUser(&models.User{ID: "u2", TeamID: strPtr("t1")})
	m.SaveUser(&models.User{ID: "u3", TeamID: strPtr("t2")})
	m.SaveUser(&models.User{ID: "u4"})

	assert.Equal(t, 2, m.CountMembers("t1"))
	assert.Equal(t, 1, m.CountMembers("t2"))
	assert.Equal(t, 0, m.CountMembers("t3"))
}

func TestAnnouncements_AppendAndCount(t *testing.T) {
	m := store.NewMemory()
	m.AppendAnnouncement(models.Announcement{TeamID: "t1", Message: "hello", CreatedByID: "u1"})
	m.AppendAnnouncement(models.Announcement{TeamID: "t1", Message: "again", CreatedByID: "u1"})
	m.AppendAnnouncement(models.Announcement{TeamID: "t2", Message: "other", CreatedByID: "u2"})

	assert.Equal(t, 2, m.CountAnnouncements("t1"))
	assert.Equal(t, 1, m.CountAnnouncements("t2"))
}

func TestFindDeal_ScopedToTeam(t *testing.T) {
	m := store.NewMemory()
	m.SaveDeal(&models.SponsorDeal{ID: "d1", TeamID: "t1", Status: models.DealPending})

	d, err := m.FindDeal("d1", "t1")
	require.NoError(t, err)
	assert.Equal(t, models.DealPending, d.Status)

	_, err = m.FindDeal("d1", "t2")
	assert.ErrorIs(t, err, store.ErrDealNotFound)

	_, err = m.FindDeal("missing", "t1")
	assert.ErrorIs(t, err, store.ErrDealNotFound)
}

func TestInviteTokens_ReplaceInvalidatesPriorGeneration(t *testing.T) {
	m := store.NewMemory()
	m.AddInviteToken(models.InviteToken{Token: "tok1", TeamID: "t1"})
	m.AddInviteToken(models.InviteToken{Token: "tok2", TeamID: "t1"})
	m.AddInviteToken(models.InviteToken{Token: "other", TeamID: "t2"})

	m.ReplaceInviteTokens("t1", models.InviteToken{Token: "fresh", TeamID: "t1"})

	assert.Equal(t, []string{"fresh"}, m.ActiveInviteTokens("t1"))

	_, ok := m.FindTeamByInviteToken("tok1")
	assert.False(t, ok)
	_, ok = m.FindTeamByInviteToken("tok2")
	assert.False(t, ok)

	teamID, ok := m.FindTeamByInviteToken("fresh")
	require.True(t, ok)
	assert.Equal(t, "t1", teamID)

	// The other team's generation is untouched.
	teamID, ok = m.FindTeamByInviteToken("other")
	require.True(t, ok)
	assert.Equal(t, "t2", teamID)
}

func TestInviteTokens_Clear(t *testing.T) {
	m := store.NewMemory()
	m.AddInviteToken(models.InviteToken{Token: "tok1", TeamID: "t1"})
	m.AddInviteToken(models.InviteToken{Token: "other", TeamID: "t2"})

	m.ClearInviteTokens("t1")

	assert.Empty(t, m.ActiveInviteTokens("t1"))
	assert.Equal(t, []string{"other"}, m.ActiveInviteTokens("t2"))
}

func TestConcurrentSaves(t *testing.T) {
	m := store.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", n)
			m.SaveUser(&models.User{ID: id, Username: id, TeamID: strPtr("t1")})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, m.CountMembers("t1"))
}

func TestTeamLock_Serializes(t *testing.T) {
	m := store.NewMemory()
	m.SaveTeam(&models.Team{ID: "t1", Name: "Locked", OwnerID: "u1", Members: []string{"u1"}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.LockTeam("t1")
			defer m.UnlockTeam("t1")

			team, err := m.FindTeam("t1")
			if !assert.NoError(t, err) {
				return
			}
			team.Members = append(team.Members, fmt.Sprintf("u%d", n+2))
			m.SaveTeam(team)
		}(i)
	}
	wg.Wait()

	team, err := m.FindTeam("t1")
	require.NoError(t, err)
	assert.Len(t, team.Members, 21)
}

func TestUserLock_Serializes(t *testing.T) {
	m := store.NewMemory()
	m.SaveUser(&models.User{ID: "u1", Username: "locked"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.LockUser("u1")
			defer m.UnlockUser("u1")

			u, err := m.FindUser("u1")
			if !assert.NoError(t, err) {
				return
			}
			u.Username = fmt.Sprintf("%s.", u.Username)
			m.SaveUser(u)
		}(i)
	}
	wg.Wait()

	u, err := m.FindUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "locked"+strings.Repeat(".", 20), u.Username)
}

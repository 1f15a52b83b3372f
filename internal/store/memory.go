package store

import (
	"strings"
	"sync"

	"github.com/rohan/teamhub/internal/models"
)

// Memory is the in-process Store implementation. Each instance owns its own
// collections, so tests construct isolated stores instead of sharing state.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	teams         map[string]*models.Team
	announcements []models.Announcement
	deals         map[string]*models.SponsorDeal
	inviteTokens  []models.InviteToken

	lockMu    sync.Mutex
	teamLocks map[string]*sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*models.User),
		teams:     make(map[string]*models.Team),
		deals:     make(map[string]*models.SponsorDeal),
		teamLocks: make(map[string]*sync.Mutex),
		userLocks: make(map[string]*sync.Mutex),
	}
}

// FindUser returns the live user record for the given ID.
func (m *Memory) FindUser(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SaveUser inserts or updates a user record.
func (m *Memory) SaveUser(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// SearchUsersByUsername returns users whose username contains the query,
// case-insensitively.
func (m *Memory) SearchUsersByUsername(query string) []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	matches := []models.User{}
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			matches = append(matches, *u)
		}
	}
	return matches
}

// CountMembers counts users whose TeamID references the given team.
func (m *Memory) CountMembers(teamID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, u := range m.users {
		if u.InTeam(teamID) {
			count++
		}
	}
	return count
}

// FindTeam returns the live team record for the given ID.
func (m *Memory) FindTeam(id string) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

// SaveTeam inserts or updates a team record.
func (m *Memory) SaveTeam(t *models.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.ID] = t
}

// SearchTeams returns teams whose name contains the keyword,
// case-insensitively.
func (m *Memory) SearchTeams(keyword string) []models.Team {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := strings.ToLower(keyword)
	matches := []models.Team{}
	for _, t := range m.teams {
		if strings.Contains(strings.ToLower(t.Name), k) {
			matches = append(matches, *t)
		}
	}
	return matches
}

// AppendAnnouncement appends a team notice. Announcements are never edited
// or removed.
func (m *Memory) AppendAnnouncement(a models.Announcement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, a)
}

// CountAnnouncements counts the announcements posted to a team.
func (m *Memory) CountAnnouncements(teamID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.announcements {
		if a.TeamID == teamID {
			count++
		}
	}
	return count
}

// FindDeal returns the sponsor deal with the given ID if it belongs to the
// given team.
func (m *Memory) FindDeal(id, teamID string) (*models.SponsorDeal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.deals[id]
	if !ok || d.TeamID != teamID {
		return nil, ErrDealNotFound
	}
	return d, nil
}

// SaveDeal inserts or updates a sponsor deal.
func (m *Memory) SaveDeal(d *models.SponsorDeal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deals[d.ID] = d
}

// CountDeals counts the sponsor deals recorded for a team.
func (m *Memory) CountDeals(teamID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, d := range m.deals {
		if d.TeamID == teamID {
			count++
		}
	}
	return count
}

// AddInviteToken appends a token to the team's current invite generation.
func (m *Memory) AddInviteToken(t models.InviteToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inviteTokens = append(m.inviteTokens, t)
}

// ReplaceInviteTokens atomically drops every token for the team and installs
// a single fresh one. Old tokens no longer resolve.
func (m *Memory) ReplaceInviteTokens(teamID string, t models.InviteToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropTokensLocked(teamID)
	m.inviteTokens = append(m.inviteTokens, t)
}

// ClearInviteTokens removes every token for the team.
func (m *Memory) ClearInviteTokens(teamID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropTokensLocked(teamID)
}

func (m *Memory) dropTokensLocked(teamID string) {
	kept := m.inviteTokens[:0]
	for _, t := range m.inviteTokens {
		if t.TeamID != teamID {
			kept = append(kept, t)
		}
	}
	m.inviteTokens = kept
}

// ActiveInviteTokens returns the team's current token generation.
func (m *Memory) ActiveInviteTokens(teamID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tokens := []string{}
	for _, t := range m.inviteTokens {
		if t.TeamID == teamID {
			tokens = append(tokens, t.Token)
		}
	}
	return tokens
}

// FindTeamByInviteToken resolves a token to its team ID.
func (m *Memory) FindTeamByInviteToken(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.inviteTokens {
		if t.Token == token {
			return t.TeamID, true
		}
	}
	return "", false
}

// LockTeam acquires the mutation lock for a team. Every membership mutation
// holds this lock for its full check-then-write sequence.
func (m *Memory) LockTeam(teamID string) {
	m.acquire(m.teamLocks, teamID)
}

// UnlockTeam releases the mutation lock for a team.
func (m *Memory) UnlockTeam(teamID string) {
	m.release(m.teamLocks, teamID)
}

// LockUser acquires the mutation lock for a user. A user's membership
// fields only change under this lock, so two teams cannot claim the same
// user concurrently.
func (m *Memory) LockUser(userID string) {
	m.acquire(m.userLocks, userID)
}

// UnlockUser releases the mutation lock for a user.
func (m *Memory) UnlockUser(userID string) {
	m.release(m.userLocks, userID)
}

func (m *Memory) acquire(locks map[string]*sync.Mutex, id string) {
	m.lockMu.Lock()
	lock, ok := locks[id]
	if !ok {
		lock = &sync.Mutex{}
		locks[id] = lock
	}
	m.lockMu.Unlock()
	lock.Lock()
}

func (m *Memory) release(locks map[string]*sync.Mutex, id string) {
	m.lockMu.Lock()
	lock, ok := locks[id]
	m.lockMu.Unlock()
	if ok {
		lock.Unlock()
	}
}

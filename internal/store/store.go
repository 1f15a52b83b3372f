// Package store holds the entity collections behind the team API. The
// interface is what the services program against, so the in-memory
// implementation can be swapped for a durable one without touching them.
package store

import (
	"errors"

	"github.com/rohan/teamhub/internal/models"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrDealNotFound is returned when a sponsor deal is not found for a team.
var ErrDealNotFound = errors.New("deal not found")

// Store provides access to users, teams and the team side tables
// (announcements, sponsor deals, invite tokens).
//
// Find methods return live records: callers mutate them in place and then
// persist with the Save methods. Mutations touching a team must be wrapped
// in LockTeam/UnlockTeam so each operation on a given team is atomic, and a
// user's TeamID/Role may only change while holding that user's lock. Lock
// acquisition order is fixed: user locks first (lowest ID first when an
// operation needs two), then the team lock. Precondition checks must be
// re-evaluated after the locks are held; reads taken before only decide
// which locks to take.
type Store interface {
	FindUser(id string) (*models.User, error)
	SaveUser(u *models.User)
	SearchUsersByUsername(query string) []models.User
	CountMembers(teamID string) int

	FindTeam(id string) (*models.Team, error)
	SaveTeam(t *models.Team)
	SearchTeams(keyword string) []models.Team

	AppendAnnouncement(a models.Announcement)
	CountAnnouncements(teamID string) int

	FindDeal(id, teamID string) (*models.SponsorDeal, error)
	SaveDeal(d *models.SponsorDeal)
	CountDeals(teamID string) int

	AddInviteToken(t models.InviteToken)
	ReplaceInviteTokens(teamID string, t models.InviteToken)
	ClearInviteTokens(teamID string)
	ActiveInviteTokens(teamID string) []string
	FindTeamByInviteToken(token string) (string, bool)

	LockTeam(teamID string)
	UnlockTeam(teamID string)
	LockUser(userID string)
	UnlockUser(userID string)
}

package teamService

import (
	"github.com/google/uuid"

	"github.com/rohan/teamhub/internal/logger"
	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/policy"
	"github.com/rohan/teamhub/internal/store"
)

// TeamService owns every state transition over teams and their memberships.
// All operations run to completion synchronously. Mutations follow the
// store's locking discipline: user locks first (lowest ID first when two are
// needed), then the team lock, and every precondition is evaluated while the
// locks are held — reads taken before only decide which locks to take. A
// failed operation changes nothing.
type TeamService struct {
	Store         store.Store
	Log           *logger.Logger
	InviteBaseURL string
}

// NewTeamService initializes a new team service.
func NewTeamService(st store.Store, inviteBaseURL string) *TeamService {
	return &TeamService{
		Store:         st,
		Log:           logger.NewLogger("team-service"),
		InviteBaseURL: inviteBaseURL,
	}
}

// TeamPayload is a team with its member records expanded.
type TeamPayload struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	OwnerID     string        `json:"ownerId"`
	Phone       *string       `json:"phone,omitempty"`
	Email       *string       `json:"email,omitempty"`
	Members     []models.User `json:"members"`
}

// AnalyticsPayload aggregates per-team counters.
type AnalyticsPayload struct {
	MembersCount      int `json:"membersCount"`
	AnnouncementCount int `json:"announcementCount"`
	DealCount         int `json:"dealCount"`
}

func (ts *TeamService) teamPayload(t *models.Team) *TeamPayload {
	members := make([]models.User, 0, len(t.Members))
	for _, id := range t.Members {
		if u, err := ts.Store.FindUser(id); err == nil {
			members = append(members, *u)
		}
	}
	return &TeamPayload{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		Phone:       t.Phone,
		Email:       t.Email,
		Members:     members,
	}
}

// createTeam makes the creator owner of a fresh team. A creator who still
// belongs to another team is detached from it first; a creator who owns
// another team must transfer ownership before creating a new one.
func (ts *TeamService) createTeam(actorID, name string, description *string) (*TeamPayload, error) {
	if _, err := ts.Store.FindUser(actorID); err != nil {
		return nil, notFound("User not found")
	}

	ts.Store.LockUser(actorID)
	defer ts.Store.UnlockUser(actorID)

	user, err := ts.Store.FindUser(actorID)
	if err != nil {
		return nil, notFound("User not found")
	}

	// The user lock makes TeamID stable, so the old team resolved here is
	// the one the detach applies to.
	if user.TeamID != nil {
		if old, err := ts.Store.FindTeam(*user.TeamID); err == nil {
			if old.OwnerID == user.ID {
				return nil, badRequest("Transfer ownership of your current team first")
			}
			ts.Store.LockTeam(old.ID)
			old.RemoveMemberID(user.ID)
			ts.Store.SaveTeam(old)
			ts.Store.UnlockTeam(old.ID)
		}
	}

	team := &models.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     user.ID,
		Members:     []string{user.ID},
	}
	ts.Store.SaveTeam(team)

	user.TeamID = &team.ID
	user.Role = models.RoleOwner
	ts.Store.SaveUser(user)

	ts.Log.Audit("Team created", "team_id", team.ID, "owner_id", user.ID)
	return ts.teamPayload(team), nil
}

// getTeamInfo returns the actor's team.
func (ts *TeamService) getTeamInfo(actorID string) (*TeamPayload, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return nil, notFound("User/team not found")
	}

	team, err := ts.Store.FindTeam(*user.TeamID)
	if err != nil {
		return nil, notFound("Team not found")
	}

	return ts.teamPayload(team), nil
}

// editTeamSettings overwrites the team's phone and email unconditionally
// (a nil value clears them) and merges the description only when provided.
func (ts *TeamService) editTeamSettings(actorID string, phone, email, description *string) (*TeamPayload, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return nil, notFound("User or team not found")
	}
	teamID := *user.TeamID

	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	user, err = ts.Store.FindUser(actorID)
	if err != nil || !user.InTeam(teamID) {
		return nil, notFound("User or team not found")
	}

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return nil, notFound("Team not found")
	}

	if !policy.Allowed(user.Role, policy.OpEditSettings) {
		return nil, forbidden("Forbidden")
	}

	team.Phone = phone
	team.Email = email
	if description != nil {
		team.Description = description
	}
	ts.Store.SaveTeam(team)

	ts.Log.Info("Team settings updated", "team_id", team.ID, "actor_id", user.ID)
	return ts.teamPayload(team), nil
}

// addMember adds an existing, currently teamless user to the actor's team
// with role member. The target's user lock is what stops two teams from
// claiming the same user at once.
func (ts *TeamService) addMember(actorID, newMemberID string) (*TeamPayload, error) {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil || actor.TeamID == nil {
		return nil, notFound("User or member not found")
	}
	teamID := *actor.TeamID

	ts.Store.LockUser(newMemberID)
	defer ts.Store.UnlockUser(newMemberID)
	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return nil, notFound("User or member not found")
	}
	newMember, err := ts.Store.FindUser(newMemberID)
	if err != nil {
		return nil, notFound("User or member not found")
	}

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return nil, notFound("Team not found")
	}

	if !policy.Allowed(actor.Role, policy.OpAddMember) {
		return nil, forbidden("Forbidden")
	}

	if newMember.TeamID != nil {
		return nil, badRequest("Member already belongs to a team")
	}

	team.Members = append(team.Members, newMember.ID)
	ts.Store.SaveTeam(team)

	newMember.TeamID = &team.ID
	newMember.Role = models.RoleMember
	ts.Store.SaveUser(newMember)

	ts.Log.Info("Member added", "team_id", team.ID, "member_id", newMember.ID, "actor_id", actor.ID)
	return ts.teamPayload(team), nil
}

// removeMember removes a non-owner member of the actor's team. The removed
// user's membership is cleared and their role resets to member.
func (ts *TeamService) removeMember(actorID, removeID string) error {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil || actor.TeamID == nil {
		return notFound("Not in the same team")
	}
	teamID := *actor.TeamID

	ts.Store.LockUser(removeID)
	defer ts.Store.UnlockUser(removeID)
	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return notFound("Not in the same team")
	}
	member, err := ts.Store.FindUser(removeID)
	if err != nil || !member.InTeam(teamID) {
		return notFound("Not in the same team")
	}

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return notFound("Team not found")
	}

	if !policy.Allowed(actor.Role, policy.OpRemoveMember) {
		return forbidden("Forbidden")
	}

	if member.Role == models.RoleOwner {
		return forbidden("Cannot remove owner")
	}

	team.RemoveMemberID(member.ID)
	ts.Store.SaveTeam(team)

	member.TeamID = nil
	member.Role = models.RoleMember
	ts.Store.SaveUser(member)

	ts.Log.Info("Member removed", "team_id", team.ID, "member_id", member.ID, "actor_id", actor.ID)
	return nil
}

// changeRole promotes or demotes a member of the actor's team. Only the
// owner may do this, the owner role can never be assigned here, and the
// owner can never be demoted here: either way ownership moves only through
// transferOwnership.
func (ts *TeamService) changeRole(actorID, memberID, roleStr string) (*models.User, error) {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil || actor.TeamID == nil {
		return nil, notFound("Invalid team")
	}
	teamID := *actor.TeamID

	ts.Store.LockUser(memberID)
	defer ts.Store.UnlockUser(memberID)
	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return nil, notFound("Invalid team")
	}
	member, err := ts.Store.FindUser(memberID)
	if err != nil || !member.InTeam(teamID) {
		return nil, notFound("Invalid team")
	}

	if !policy.Allowed(actor.Role, policy.OpChangeRole) {
		return nil, forbidden("Only owner can change roles")
	}

	newRole, ok := models.ParseRole(roleStr)
	if !ok {
		return nil, badRequest("Invalid role")
	}
	if newRole == models.RoleOwner {
		return nil, badRequest("Cannot assign owner role directly")
	}
	if member.Role == models.RoleOwner {
		return nil, badRequest("Transfer ownership first")
	}

	member.Role = newRole
	ts.Store.SaveUser(member)

	ts.Log.Info("Role changed", "member_id", member.ID, "role", newRole, "actor_id", actor.ID)
	return member, nil
}

// makeAnnouncement appends an immutable team notice.
func (ts *TeamService) makeAnnouncement(actorID, message string) error {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return notFound("User/team not found")
	}

	if !policy.Allowed(user.Role, policy.OpAnnounce) {
		return forbidden("Forbidden")
	}

	ts.Store.AppendAnnouncement(models.Announcement{
		TeamID:      *user.TeamID,
		Message:     message,
		CreatedByID: user.ID,
	})

	ts.Log.Info("Announcement posted", "team_id", *user.TeamID, "actor_id", user.ID)
	return nil
}

// acceptDeal moves a sponsor deal for the actor's team to ACCEPTED.
func (ts *TeamService) acceptDeal(actorID, dealID string) (*models.SponsorDeal, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return nil, notFound("Team not found")
	}
	teamID := *user.TeamID

	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	user, err = ts.Store.FindUser(actorID)
	if err != nil || !user.InTeam(teamID) {
		return nil, notFound("Team not found")
	}

	if !policy.Allowed(user.Role, policy.OpAcceptDeal) {
		return nil, forbidden("Forbidden")
	}

	deal, err := ts.Store.FindDeal(dealID, teamID)
	if err != nil {
		return nil, notFound("Deal not found")
	}

	deal.Status = models.DealAccepted
	ts.Store.SaveDeal(deal)

	ts.Log.Audit("Deal accepted", "deal_id", deal.ID, "team_id", deal.TeamID, "actor_id", user.ID)
	return deal, nil
}

// analytics aggregates member, announcement and deal counts for the actor's
// team. Query only, no mutation.
func (ts *TeamService) analytics(actorID string) (*AnalyticsPayload, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return nil, notFound("User/team not found")
	}

	teamID := *user.TeamID
	return &AnalyticsPayload{
		MembersCount:      ts.Store.CountMembers(teamID),
		AnnouncementCount: ts.Store.CountAnnouncements(teamID),
		DealCount:         ts.Store.CountDeals(teamID),
	}, nil
}

// generateInviteLink mints a token in the team's current invite generation
// without invalidating earlier ones.
func (ts *TeamService) generateInviteLink(actorID string) (string, error) {
	user, err := ts.ownerForInvites(actorID)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	ts.Store.AddInviteToken(models.InviteToken{Token: token, TeamID: *user.TeamID})

	return ts.InviteBaseURL + token, nil
}

// resetInviteLink starts a fresh invite generation: every previously issued
// token for the team stops resolving, atomically.
func (ts *TeamService) resetInviteLink(actorID string) (string, error) {
	user, err := ts.ownerForInvites(actorID)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	ts.Store.ReplaceInviteTokens(*user.TeamID, models.InviteToken{Token: token, TeamID: *user.TeamID})

	ts.Log.Audit("Invite link reset", "team_id", *user.TeamID, "actor_id", user.ID)
	return ts.InviteBaseURL + token, nil
}

// disableInviteLink removes every token for the team.
func (ts *TeamService) disableInviteLink(actorID string) error {
	user, err := ts.ownerForInvites(actorID)
	if err != nil {
		return err
	}

	ts.Store.ClearInviteTokens(*user.TeamID)

	ts.Log.Audit("Invite link disabled", "team_id", *user.TeamID, "actor_id", user.ID)
	return nil
}

func (ts *TeamService) ownerForInvites(actorID string) (*models.User, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil || !policy.Allowed(user.Role, policy.OpManageInvites) {
		return nil, forbidden("Only owner allowed")
	}
	return user, nil
}

// leaveTeam removes the actor from their team. The owner can never leave;
// ownership has to be transferred first.
func (ts *TeamService) leaveTeam(actorID string) error {
	if _, err := ts.Store.FindUser(actorID); err != nil {
		return notFound("User not found")
	}

	ts.Store.LockUser(actorID)
	defer ts.Store.UnlockUser(actorID)

	user, err := ts.Store.FindUser(actorID)
	if err != nil {
		return notFound("User not found")
	}
	if user.TeamID == nil {
		return notFound("Team not found")
	}
	teamID := *user.TeamID

	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return notFound("Team not found")
	}

	if user.Role == models.RoleOwner {
		return badRequest("Owner cannot leave. Transfer ownership first.")
	}

	team.RemoveMemberID(user.ID)
	ts.Store.SaveTeam(team)

	user.TeamID = nil
	user.Role = models.RoleMember
	ts.Store.SaveUser(user)

	ts.Log.Info("Member left team", "team_id", team.ID, "member_id", user.ID)
	return nil
}

// transferOwnership swaps roles between the owner and an admin of the same
// team: the actor becomes admin, the target becomes owner, and the team's
// ownerId follows. No third member is affected.
func (ts *TeamService) transferOwnership(actorID, newOwnerID string) (*models.User, error) {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil {
		return nil, notFound("User not found")
	}
	if actor.TeamID == nil {
		return nil, notFound("Team not found")
	}
	teamID := *actor.TeamID

	first, second := actorID, newOwnerID
	if second < first {
		first, second = second, first
	}
	ts.Store.LockUser(first)
	defer ts.Store.UnlockUser(first)
	if second != first {
		ts.Store.LockUser(second)
		defer ts.Store.UnlockUser(second)
	}
	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return nil, notFound("Team not found")
	}

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return nil, notFound("Team not found")
	}

	if !policy.Allowed(actor.Role, policy.OpTransferOwnership) {
		return nil, forbidden("Only owner can transfer ownership")
	}

	newOwner, err := ts.Store.FindUser(newOwnerID)
	if err != nil || !newOwner.InTeam(team.ID) || newOwner.Role != models.RoleAdmin {
		return nil, badRequest("New owner must be an admin in the same team")
	}

	actor.Role = models.RoleAdmin
	newOwner.Role = models.RoleOwner
	team.OwnerID = newOwner.ID
	ts.Store.SaveUser(actor)
	ts.Store.SaveUser(newOwner)
	ts.Store.SaveTeam(team)

	ts.Log.Audit("Ownership transferred", "team_id", team.ID, "old_owner", actor.ID, "new_owner", newOwner.ID)
	return newOwner, nil
}

// membersByRole groups the actor's team members by role, in join order.
func (ts *TeamService) membersByRole(actorID string) (map[models.Role][]models.User, error) {
	user, err := ts.Store.FindUser(actorID)
	if err != nil || user.TeamID == nil {
		return nil, notFound("Team not found")
	}

	team, err := ts.Store.FindTeam(*user.TeamID)
	if err != nil {
		return nil, notFound("Team not found")
	}

	grouped := make(map[models.Role][]models.User)
	for _, id := range team.Members {
		if member, err := ts.Store.FindUser(id); err == nil {
			grouped[member.Role] = append(grouped[member.Role], *member)
		}
	}
	return grouped, nil
}

// updateMemberInfo patches a same-team member's name and phone. Absent
// fields keep their current values.
func (ts *TeamService) updateMemberInfo(actorID, memberID string, name, phone *string) (*models.User, error) {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil || actor.TeamID == nil {
		return nil, notFound("Member not found")
	}
	teamID := *actor.TeamID

	ts.Store.LockUser(memberID)
	defer ts.Store.UnlockUser(memberID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return nil, notFound("Member not found")
	}

	if !policy.Allowed(actor.Role, policy.OpUpdateMemberInfo) {
		return nil, forbidden("Forbidden")
	}

	member, err := ts.Store.FindUser(memberID)
	if err != nil || !member.InTeam(teamID) {
		return nil, notFound("Member not found")
	}

	if name != nil {
		member.Name = *name
	}
	if phone != nil {
		member.Phone = phone
	}
	ts.Store.SaveUser(member)

	ts.Log.Info("Member info updated", "member_id", member.ID, "actor_id", actor.ID)
	return member, nil
}

// softDeleteMember disables a member: removed from active membership, the
// underlying user record stays.
func (ts *TeamService) softDeleteMember(actorID, memberID string) error {
	actor, err := ts.Store.FindUser(actorID)
	if err != nil || actor.TeamID == nil {
		return notFound("Team not found")
	}
	teamID := *actor.TeamID

	ts.Store.LockUser(memberID)
	defer ts.Store.UnlockUser(memberID)
	ts.Store.LockTeam(teamID)
	defer ts.Store.UnlockTeam(teamID)

	actor, err = ts.Store.FindUser(actorID)
	if err != nil || !actor.InTeam(teamID) {
		return notFound("Team not found")
	}

	team, err := ts.Store.FindTeam(teamID)
	if err != nil {
		return notFound("Team not found")
	}

	if !policy.Allowed(actor.Role, policy.OpDisableMember) {
		return forbidden("Only owner can disable a member")
	}

	member, err := ts.Store.FindUser(memberID)
	if err != nil || !team.HasMember(memberID) || member.Role == models.RoleOwner {
		return badRequest("Invalid member")
	}

	team.RemoveMemberID(member.ID)
	ts.Store.SaveTeam(team)

	member.TeamID = nil
	member.Role = models.RoleMember
	ts.Store.SaveUser(member)

	ts.Log.Audit("Member disabled", "team_id", team.ID, "member_id", member.ID, "actor_id", actor.ID)
	return nil
}

// searchTeams matches team names case-insensitively against the keyword.
// Public: no actor involved.
func (ts *TeamService) searchTeams(keyword string) ([]*TeamPayload, error) {
	if keyword == "" {
		return nil, badRequest("Keyword query parameter is required")
	}

	teams := ts.Store.SearchTeams(keyword)
	payloads := make([]*TeamPayload, 0, len(teams))
	for i := range teams {
		payloads = append(payloads, ts.teamPayload(&teams[i]))
	}
	return payloads, nil
}

// searchMembers matches usernames case-insensitively against the query.
func (ts *TeamService) searchMembers(query string) ([]models.User, error) {
	if query == "" {
		return nil, badRequest("Username query parameter is required")
	}
	return ts.Store.SearchUsersByUsername(query), nil
}

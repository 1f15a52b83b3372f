package teamService

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohan/teamhub/internal/middleware"
	"github.com/rohan/teamhub/internal/validator"
)

// CreateTeamRequest represents the request body for team creation.
type CreateTeamRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// EditSettingsRequest represents the request body for settings updates.
// Phone and email always overwrite; description merges only when present.
type EditSettingsRequest struct {
	Phone       *string `json:"phone"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type addMemberRequest struct {
	NewMemberID string `json:"newMemberId" validate:"required"`
}

type removeMemberRequest struct {
	RemoveID string `json:"removeId" validate:"required"`
}

type changeRoleRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type announcementRequest struct {
	Message string `json:"message" validate:"required"`
}

type acceptDealRequest struct {
	DealID string `json:"dealId" validate:"required"`
}

type transferOwnershipRequest struct {
	NewOwnerID string `json:"newOwnerId" validate:"required"`
}

type updateMemberRequest struct {
	MemberID string  `json:"memberId" validate:"required"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
}

type disableMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

// CreateTeam handles the creation of a new team.
func (ts *TeamService) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	team, err := ts.createTeam(middleware.ActorID(r.Context()), req.Name, req.Description)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"message": "Team created", "team": team})
}

// GetTeamInfo returns the actor's team.
func (ts *TeamService) GetTeamInfo(w http.ResponseWriter, r *http.Request) {
	team, err := ts.getTeamInfo(middleware.ActorID(r.Context()))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"team": team})
}

// EditTeamSettings updates the team's contact details and description.
func (ts *TeamService) EditTeamSettings(w http.ResponseWriter, r *http.Request) {
	var req EditSettingsRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	team, err := ts.editTeamSettings(middleware.ActorID(r.Context()), req.Phone, req.Email, req.Description)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Team updated", "team": team})
}

// AddMember adds a user to the actor's team.
func (ts *TeamService) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	team, err := ts.addMember(middleware.ActorID(r.Context()), req.NewMemberID)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Member added", "team": team})
}

// RemoveMember removes a member from the actor's team.
func (ts *TeamService) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req removeMemberRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	if err := ts.removeMember(middleware.ActorID(r.Context()), req.RemoveID); err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// ChangeRole promotes or demotes a member.
func (ts *TeamService) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	member, err := ts.changeRole(middleware.ActorID(r.Context()), req.MemberID, req.Role)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Role changed", "member": member})
}

// MakeAnnouncement posts a team notice.
func (ts *TeamService) MakeAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	if err := ts.makeAnnouncement(middleware.ActorID(r.Context()), req.Message); err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Announcement posted"})
}

// AcceptDeal accepts a pending sponsor deal for the actor's team.
func (ts *TeamService) AcceptDeal(w http.ResponseWriter, r *http.Request) {
	var req acceptDealRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	deal, err := ts.acceptDeal(middleware.ActorID(r.Context()), req.DealID)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Deal accepted", "deal": deal})
}

// GetAnalytics returns per-team aggregate counts.
func (ts *TeamService) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := ts.analytics(middleware.ActorID(r.Context()))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GenerateInviteLink mints an invite token for the actor's team.
func (ts *TeamService) GenerateInviteLink(w http.ResponseWriter, r *http.Request) {
	link, err := ts.generateInviteLink(middleware.ActorID(r.Context()))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"inviteLink": link})
}

// ResetInviteLink replaces the team's invite generation with a fresh token.
func (ts *TeamService) ResetInviteLink(w http.ResponseWriter, r *http.Request) {
	link, err := ts.resetInviteLink(middleware.ActorID(r.Context()))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"inviteLink": link})
}

// DisableInviteLink turns invite links off for the actor's team.
func (ts *TeamService) DisableInviteLink(w http.ResponseWriter, r *http.Request) {
	if err := ts.disableInviteLink(middleware.ActorID(r.Context())); err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Invite link disabled"})
}

// LeaveTeam removes the actor from their team.
func (ts *TeamService) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	if err := ts.leaveTeam(middleware.ActorID(r.Context())); err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Left team successfully"})
}

// TransferOwnership hands the team to an admin of the same team.
func (ts *TeamService) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	var req transferOwnershipRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	newOwner, err := ts.transferOwnership(middleware.ActorID(r.Context()), req.NewOwnerID)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Ownership transferred", "newOwner": newOwner})
}

// GetMembersByRole groups the team's members by role.
func (ts *TeamService) GetMembersByRole(w http.ResponseWriter, r *http.Request) {
	grouped, err := ts.membersByRole(middleware.ActorID(r.Context()))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, grouped)
}

// UpdateMemberInfo patches a member's contact details.
func (ts *TeamService) UpdateMemberInfo(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	member, err := ts.updateMemberInfo(middleware.ActorID(r.Context()), req.MemberID, req.Name, req.Phone)
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Member info updated", "member": member})
}

// SoftDeleteMember disables a member without deleting the user record.
func (ts *TeamService) SoftDeleteMember(w http.ResponseWriter, r *http.Request) {
	var req disableMemberRequest
	if err := decode(r, &req); err != nil {
		ts.respondError(w, err)
		return
	}

	if err := ts.softDeleteMember(middleware.ActorID(r.Context()), req.MemberID); err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed (soft delete)"})
}

// SearchTeams matches team names against the keyword query parameter.
func (ts *TeamService) SearchTeams(w http.ResponseWriter, r *http.Request) {
	matches, err := ts.searchTeams(r.URL.Query().Get("keyword"))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, matches)
}

// SearchMemberByUsername matches usernames against the username query
// parameter.
func (ts *TeamService) SearchMemberByUsername(w http.ResponseWriter, r *http.Request) {
	matches, err := ts.searchMembers(r.URL.Query().Get("username"))
	if err != nil {
		ts.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, matches)
}

// decode parses and validates a JSON request body.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("Invalid request body")
	}
	if err := validator.Validate(dst); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func (ts *TeamService) respondError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		if apiErr.status >= http.StatusInternalServerError {
			ts.Log.Error("Operation failed", "error", err)
		} else {
			ts.Log.Warn("Operation rejected", "reason", apiErr.message)
		}
		respondWithJSON(w, apiErr.status, map[string]string{"message": apiErr.message})
		return
	}

	ts.Log.Error("Unexpected error", "error", err)
	respondWithJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

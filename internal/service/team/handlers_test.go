package teamService_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/routes"
	chatService "github.com/rohan/teamhub/internal/service/chat"
	teamService "github.com/rohan/teamhub/internal/service/team"
	"github.com/rohan/teamhub/internal/store"
)

// newTestServer builds the full router over an in-memory store, seeded with
// a team of one owner, one admin and one member.
func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	st := store.NewMemory()
	hub := models.NewHub()
	go hub.Run()

	teamID := "team-1"
	owner := &models.User{ID: "owner-1", Name: "Olive Owner", Username: "olive", Email: "olive@example.com", Role: models.RoleOwner, TeamID: &teamID}
	admin := &models.User{ID: "admin-1", Name: "Ada Admin", Username: "ada", Email: "ada@example.com", Role: models.RoleAdmin, TeamID: &teamID}
	member := &models.User{ID: "member-1", Name: "Max Member", Username: "max", Email: "max@example.com", Role: models.RoleMember, TeamID: &teamID}
	st.SaveUser(owner)
	st.SaveUser(admin)
	st.SaveUser(member)
	st.SaveTeam(&models.Team{
		ID:      teamID,
		Name:    "Test Team",
		OwnerID: owner.ID,
		Members: []string{owner.ID, admin.ID, member.ID},
	})

	router := routes.RegisterAllRoutes(routes.Deps{
		Store: st,
		Teams: teamService.NewTeamService(st, "https://app.com/invite/"),
		Chat:  chatService.NewChatService(hub),
		Hub:   hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, actorID string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set("X-User-ID", actorID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func messageField(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(body["message"], &msg))
	return msg
}

func TestCreateTeamEndpoint_Returns201(t *testing.T) {
	srv, st := newTestServer(t)
	st.SaveUser(&models.User{ID: "fresh-1", Name: "Fresh", Username: "fresh", Email: "fresh@example.com", Role: models.RoleMember})

	resp, body := doJSON(t, srv, http.MethodPost, "/api/team/create", "fresh-1", map[string]string{"name": "Brand New"})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Team created", messageField(t, body))

	var team teamService.TeamPayload
	require.NoError(t, json.Unmarshal(body["team"], &team))
	assert.Equal(t, "Brand New", team.Name)
	assert.Equal(t, "fresh-1", team.OwnerID)
}

func TestCreateTeamEndpoint_ValidationRejectsEmptyName(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/team/create", "owner-1", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTeamInfoEndpoint_UnknownActor404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/team/info", "nobody", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User/team not found", messageField(t, body))
}

func TestRemoveMemberEndpoint_OwnerProtected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodDelete, "/api/team/members/remove", "owner-1", map[string]string{"removeId": "admin-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Member removed", messageField(t, body))

	resp, body = doJSON(t, srv, http.MethodDelete, "/api/team/members/remove", "owner-1", map[string]string{"removeId": "owner-1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Cannot remove owner", messageField(t, body))
}

func TestChangeRoleEndpoint_MemberActorGatedOff(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPut, "/api/team/members/role", "member-1", map[string]string{"memberId": "admin-1", "role": "member"})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: insufficient role", messageField(t, body))
}

func TestChangeRoleEndpoint_OwnerAssignmentRejected(t *testing.T) {
	srv, st := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPut, "/api/team/members/role", "owner-1", map[string]string{"memberId": "admin-1", "role": "owner"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot assign owner role directly", messageField(t, body))

	u, err := st.FindUser("admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestLeaveEndpoint_OwnerBlockedAtGate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/team/leave", "owner-1", nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: insufficient role", messageField(t, body))
}

func TestLeaveEndpoint_MemberLeaves(t *testing.T) {
	srv, st := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/team/leave", "member-1", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Left team successfully", messageField(t, body))

	u, err := st.FindUser("member-1")
	require.NoError(t, err)
	assert.Nil(t, u.TeamID)
}

func TestGatedEndpoint_NoActor401(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/team/members", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", messageField(t, body))
}

func TestTransferOwnershipEndpoint_Succeeds(t *testing.T) {
	srv, st := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/team/transfer-ownership", "owner-1", map[string]string{"newOwnerId": "admin-1"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ownership transferred", messageField(t, body))

	team, err := st.FindTeam("team-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", team.OwnerID)

	old, err := st.FindUser("owner-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, old.Role)
}

func TestSearchTeamsEndpoint_OneMatch(t *testing.T) {
	srv, st := newTestServer(t)
	st.SaveTeam(&models.Team{ID: "team-2", Name: "Other Squad", OwnerID: "x"})

	resp, err := srv.Client().Get(srv.URL + "/api/team/search?keyword=Test")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var matches []teamService.TeamPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Test Team", matches[0].Name)
}

func TestSearchTeamsEndpoint_MissingKeyword400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/team/search", "", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Keyword query parameter is required", messageField(t, body))
}

func TestInviteEndpoints_OwnerOnly(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/team/invite/generate", "owner-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var link string
	require.NoError(t, json.Unmarshal(body["inviteLink"], &link))
	assert.Contains(t, link, "https://app.com/invite/")

	resp, body = doJSON(t, srv, http.MethodGet, "/api/team/invite/generate", "admin-1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: insufficient role", messageField(t, body))
}

func TestAnalyticsEndpoint_Counts(t *testing.T) {
	srv, st := newTestServer(t)
	st.AppendAnnouncement(models.Announcement{TeamID: "team-1", Message: "hello", CreatedByID: "owner-1"})

	resp, body := doJSON(t, srv, http.MethodGet, "/api/team/analytics", "owner-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int
	require.NoError(t, json.Unmarshal(body["membersCount"], &count))
	assert.Equal(t, 3, count)
	require.NoError(t, json.Unmarshal(body["announcementCount"], &count))
	assert.Equal(t, 1, count)
}

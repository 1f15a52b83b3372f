package teamroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/middleware"
	"github.com/rohan/teamhub/internal/policy"
	teamService "github.com/rohan/teamhub/internal/service/team"
	"github.com/rohan/teamhub/internal/store"
)

// TeamRoutes registers the team-management API. Role requirements per route
// mirror the capability table; routes without a gate resolve the actor
// themselves and fail with 404 when no usable identity arrives.
func TeamRoutes(router *mux.Router, svc *teamService.TeamService, st store.Store) {
	r := router.PathPrefix("/api/team").Subrouter()
	r.Use(middleware.ActorResolver, middleware.ResponseWrapperMiddleware)

	gate := func(op policy.Operation, h http.HandlerFunc) http.Handler {
		return middleware.RequireCapability(st, op)(h)
	}

	// Team info and creation
	r.HandleFunc("/info", svc.GetTeamInfo).Methods(http.MethodGet)
	r.HandleFunc("/create", svc.CreateTeam).Methods(http.MethodPost)

	// Settings - owner/admin
	r.Handle("/settings", gate(policy.OpEditSettings, svc.EditTeamSettings)).Methods(http.MethodPut)

	// Membership mutations
	r.Handle("/members/add", gate(policy.OpAddMember, svc.AddMember)).Methods(http.MethodPost)
	r.Handle("/members/remove", gate(policy.OpRemoveMember, svc.RemoveMember)).Methods(http.MethodDelete)
	r.Handle("/members/role", gate(policy.OpChangeRole, svc.ChangeRole)).Methods(http.MethodPut)
	r.Handle("/members/update", gate(policy.OpUpdateMemberInfo, svc.UpdateMemberInfo)).Methods(http.MethodPut)
	r.Handle("/members/disable", gate(policy.OpDisableMember, svc.SoftDeleteMember)).Methods(http.MethodPost)

	// Member views
	r.Handle("/members", gate(policy.OpViewMembers, svc.GetMembersByRole)).Methods(http.MethodGet)
	r.Handle("/members/search", gate(policy.OpSearchMembers, svc.SearchMemberByUsername)).Methods(http.MethodGet)

	// Leaving and ownership
	r.Handle("/leave", gate(policy.OpLeaveTeam, svc.LeaveTeam)).Methods(http.MethodPost)
	r.Handle("/transfer-ownership", gate(policy.OpTransferOwnership, svc.TransferOwnership)).Methods(http.MethodPost)

	// Announcements, analytics, sponsor deals
	r.Handle("/announcements", gate(policy.OpAnnounce, svc.MakeAnnouncement)).Methods(http.MethodPost)
	r.HandleFunc("/analytics", svc.GetAnalytics).Methods(http.MethodGet)
	r.Handle("/sponsor/accept", gate(policy.OpAcceptDeal, svc.AcceptDeal)).Methods(http.MethodPost)

	// Invite links - owner only
	r.Handle("/invite/generate", gate(policy.OpManageInvites, svc.GenerateInviteLink)).Methods(http.MethodGet)
	r.Handle("/invite/reset", gate(policy.OpManageInvites, svc.ResetInviteLink)).Methods(http.MethodGet)
	r.Handle("/invite/disable", gate(policy.OpManageInvites, svc.DisableInviteLink)).Methods(http.MethodPost)

	// Public search
	r.HandleFunc("/search", svc.SearchTeams).Methods(http.MethodGet)
}

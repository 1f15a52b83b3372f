package routes

import (
	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/routes/chatroutes"
	"github.com/rohan/teamhub/internal/routes/teamroutes"
	"github.com/rohan/teamhub/internal/routes/userroutes"
	chatService "github.com/rohan/teamhub/internal/service/chat"
	teamService "github.com/rohan/teamhub/internal/service/team"
	profileService "github.com/rohan/teamhub/internal/service/users"
	"github.com/rohan/teamhub/internal/store"
)

// Deps holds everything the routers need. Profiles is nil when no database
// is configured; its routes are simply not mounted.
type Deps struct {
	Store    store.Store
	Teams    *teamService.TeamService
	Chat     *chatService.ChatService
	Hub      *models.Hub
	Profiles *profileService.ProfileService
}

// RegisterAllRoutes builds the full router.
func RegisterAllRoutes(deps Deps) *mux.Router {
	router := mux.NewRouter()

	teamroutes.TeamRoutes(router, deps.Teams, deps.Store)
	chatroutes.ChatRoutes(router, deps.Chat)
	if deps.Profiles != nil {
		userroutes.UserProfileRoutes(router, deps.Profiles)
	}
	registerWebSocketRoutes(router, deps)

	return router
}

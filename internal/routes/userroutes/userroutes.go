package userroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/middleware"
	profileService "github.com/rohan/teamhub/internal/service/users"
)

// UserProfileRoutes registers the durable user-profile CRUD sub-resource.
func UserProfileRoutes(router *mux.Router, svc *profileService.ProfileService) {
	r := router.PathPrefix("/api/user").Subrouter()
	r.Use(middleware.ActorResolver, middleware.ResponseWrapperMiddleware)

	r.HandleFunc("", svc.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("", svc.GetUsers).Methods(http.MethodGet)
	r.HandleFunc("/{id}", svc.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/{id}", svc.UpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/{id}", svc.DeleteUser).Methods(http.MethodDelete)
}

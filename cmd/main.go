package main

import (
	"fmt"
	"net/http"

	"github.com/rohan/teamhub/internal/config"
	"github.com/rohan/teamhub/internal/database"
	"github.com/rohan/teamhub/internal/logger"
	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/routes"
	chatService "github.com/rohan/teamhub/internal/service/chat"
	teamService "github.com/rohan/teamhub/internal/service/team"
	profileService "github.com/rohan/teamhub/internal/service/users"
	"github.com/rohan/teamhub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger("teamhub")
	defer log.Sync()

	st := store.NewMemory()
	hub := models.NewHub()
	go hub.Run()

	chat := chatService.NewChatService(hub)
	teams := teamService.NewTeamService(st, cfg.InviteBaseURL)

	deps := routes.Deps{
		Store: st,
		Teams: teams,
		Chat:  chat,
		Hub:   hub,
	}

	// The profile sub-resource is durable; it mounts only when MySQL is
	// configured, everything else runs without it.
	if cfg.HasDatabase() {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()
		deps.Profiles = profileService.NewProfileService(db)
		log.Info("Database connected", "host", cfg.DBHost, "name", cfg.DBName)
	} else {
		log.Warn("No database configured, user profile routes disabled")
	}

	router := routes.RegisterAllRoutes(deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("Server is running", "addr", addr, "env", cfg.AppEnv)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}

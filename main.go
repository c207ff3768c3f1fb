package main

import (
	"log"

	"github.com/gstrickland/tripscore/config"
	_ "github.com/gstrickland/tripscore/docs"
	"github.com/gstrickland/tripscore/internal/course"
	"github.com/gstrickland/tripscore/internal/notify"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/gstrickland/tripscore/routes"
)

// @title TripScore REST API
// @version 1.0
// @description Match-play scoring server for golf trips: handicaps, hole-by-hole event logs, Ryder-Cup-style standings and offline sync.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	if cfg.Sync.LocalOnly {
		log.Fatal("SYNC_LOCAL_ONLY is set: the API server needs a canonical store; local-only mode is for embedded/device use")
	}

	err := config.DB.AutoMigrate(
		&trip.Trip{}, &trip.Team{}, &trip.Player{},
		&course.Course{}, &course.Tee{},
		&scoring.Match{}, &scoring.ScoringEvent{}, &scoring.HoleResult{},
		&notify.Subscription{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	// Use port from loaded configuration
	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

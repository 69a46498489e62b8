package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cadenr/youface-be/internal/api"
	"github.com/cadenr/youface-be/internal/config"
	"github.com/cadenr/youface-be/internal/database"
	"github.com/cadenr/youface-be/internal/logger"
	"github.com/cadenr/youface-be/internal/monitoring"
	"github.com/cadenr/youface-be/internal/services"
	"github.com/cadenr/youface-be/internal/store"
	"github.com/cadenr/youface-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the record store
	recordStore := store.New(db)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(recordStore)
	postService := services.NewPostService(recordStore)
	feedService := services.NewFeedService(userService, postService)
	scoreService := services.NewScoreService(recordStore)
	eventService := services.NewEventService(recordStore)

	// Set up and run the background leaderboard refresher
	refresher, err := monitoring.NewLeaderboardRefresher(scoreService, hub, cfg.LeaderboardRefresh)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.LeaderboardRefresh).Msg("Invalid leaderboard refresh schedule")
	}
	go refresher.Run()

	// Set up router
	router := api.NewRouter(hub, cfg.CORSOrigin, userService, postService, feedService, scoreService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cadenr/youface-be/internal/api/handlers"
	"github.com/cadenr/youface-be/internal/auth"
	"github.com/cadenr/youface-be/internal/services"
	"github.com/cadenr/youface-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	corsOrigin string,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	feedService services.FeedServiceProvider,
	scoreService services.ScoreServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, eventService, hub)
	postHandler := handlers.NewPostHandler(userService, postService, eventService, hub)
	feedHandler := handlers.NewFeedHandler(userService, feedService)
	leaderboardHandler := handlers.NewLeaderboardHandler(scoreService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Get("/leaderboard", leaderboardHandler.Get)
		r.Get("/ws", wsHandler.Serve)

		// Everything else carries the credential token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware())

			r.Get("/auth/me", userHandler.Me)
			r.Delete("/auth/account", userHandler.Delete)

			r.Get("/feed", feedHandler.Feed)
			r.Post("/posts", postHandler.Create)
			r.Route("/posts/{id}", func(r chi.Router) {
				r.Post("/like", postHandler.Like)
				r.Delete("/like", postHandler.Unlike)
				r.Post("/comments", postHandler.Comment)
			})

			r.Get("/friends", userHandler.Relationships)
			r.Get("/users/suggestions", userHandler.Suggestions)
			r.Get("/users/search", userHandler.Search)
			r.Route("/users/{username}", func(r chi.Router) {
				r.Get("/posts", feedHandler.Profile)
				r.Post("/follow", userHandler.Follow)
				r.Delete("/follow", userHandler.Unfollow)
			})

			r.Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}

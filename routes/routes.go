package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/padelpoint/torneo-system/handlers"
	"github.com/padelpoint/torneo-system/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Stats        *handlers.StatsHandler
	WebSocket    *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", h.Auth.SignUp)
	router.Post("/auth/signin", h.Auth.SignIn)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты: просмотр турниров и регистрация пар
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/teams", h.Registration.ListTeamsHandler)
		r.Post("/{tournamentID}/teams", h.Registration.RegisterTeamHandler)

		// Защищенные маршруты только для организаторов
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireOrganizer)

			r.Post("/", h.Tournament.CreateHandler)
			r.Patch("/{tournamentID}", h.Tournament.UpdateConfigHandler)
			r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)

			r.Patch("/{tournamentID}/teams/{teamID}/status", h.Registration.SetTeamStatusHandler)
			r.Delete("/{tournamentID}/teams/{teamID}", h.Registration.RemoveTeamHandler)

			r.Post("/{tournamentID}/groups", h.Tournament.GenerateGroupsHandler)
			r.Put("/{tournamentID}/groups/{groupID}/matches/{matchID}/result", h.Tournament.UpdateMatchResultHandler)
			r.Post("/{tournamentID}/bracket", h.Tournament.GenerateBracketHandler)
			r.Put("/{tournamentID}/bracket/matches/{matchID}/result", h.Tournament.UpdateBracketMatchHandler)

			r.Post("/{tournamentID}/poster", h.Tournament.UploadPosterHandler)
		})
	})

	router.Get("/players/{playerID}/stats", h.Stats.PlayerStatsHandler)
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return router
}

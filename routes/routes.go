package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/team-league/docs"
	"github.com/Dosada05/team-league/handlers"
	"github.com/Dosada05/team-league/middleware"
)

type Options struct {
	AllowedOrigins []string
	RequestLogger  func(http.Handler) http.Handler
	RateLimiter    *middleware.RateLimiter
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	leagueHandler *handlers.LeagueHandler,
	weekHandler *handlers.WeekHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	if opts.RequestLogger != nil {
		router.Use(opts.RequestLogger)
	}
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	// Ограничение частоты только для изменяющих запросов
	limited := func(r chi.Router) chi.Router {
		if opts.RateLimiter == nil {
			return r
		}
		return r.With(opts.RateLimiter.Handler)
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ws/leagues/{leagueID}", webSocketHandler.ServeWs)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", leagueHandler.ListLeagues)
			limited(r).Post("/", leagueHandler.CreateLeague)

			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", leagueHandler.GetLeague)

				r.Get("/teams", leagueHandler.ListTeams)
				limited(r).Post("/teams", leagueHandler.CreateTeam)

				r.Get("/weeks", weekHandler.ListWeeks)
				limited(r).Post("/weeks", weekHandler.CreateWeek)

				r.Get("/standings", standingsHandler.GetStandings)
				r.Get("/power-scores/{playerID}", standingsHandler.GetPowerScore)
				r.Get("/seeding", standingsHandler.GetSeeding)
			})
		})

		r.Route("/weeks/{weekID}", func(r chi.Router) {
			r.Get("/", weekHandler.GetWeek)
			limited(r).Delete("/", weekHandler.DeleteWeek)
			limited(r).Post("/actions/{action}", weekHandler.ApplyAction)
			limited(r).Put("/features/{teamID}", weekHandler.DesignateFeature)
			limited(r).Put("/decks/{userID}", weekHandler.SelectDecks)
		})

		r.Route("/player-matchups/{playerMatchupID}", func(r chi.Router) {
			limited(r).Post("/games", weekHandler.ReportGame)
			limited(r).Post("/strikes", weekHandler.AddStrike)
		})
	})
}

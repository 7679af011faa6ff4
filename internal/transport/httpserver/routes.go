package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"staff-console-go/internal/config"
	"staff-console-go/internal/transport/httpserver/handler"
	authmw "staff-console-go/internal/transport/httpserver/middleware"
	"staff-console-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/dashboard", handlers.GetDashboard)

			r.Get("/employees", handlers.ListEmployees)
			r.Get("/employees/options", handlers.ListEmployeeOptions)
			r.Get("/employees/count", handlers.CountEmployees)
			r.Get("/employees/{id}", handlers.GetEmployee)
			r.Post("/employees", handlers.CreateEmployee)
			r.Put("/employees/{id}", handlers.UpdateEmployee)
			r.Delete("/employees/{id}", handlers.DeleteEmployee)

			r.Post("/avatars", handlers.UploadAvatar)

			r.Get("/teams", handlers.ListTeams)
			r.Get("/teams/options", handlers.ListTeamOptions)
			r.Get("/teams/count", handlers.CountTeams)
			r.Post("/teams/verify", handlers.VerifyTeam)
			r.Get("/teams/{id}", handlers.GetTeam)
			r.Get("/teams/{id}/qrcode.png", handlers.DownloadTeamQRCode)
			r.Get("/teams/{id}/qrcode/print", handlers.PrintTeamQRCode)
			r.Post("/teams", handlers.CreateTeam)
			r.Put("/teams/{id}", handlers.UpdateTeam)
			r.Delete("/teams/{id}", handlers.DeleteTeam)
		})
	})

	return r
}

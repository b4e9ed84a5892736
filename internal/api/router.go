package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/devblogs-be/internal/api/handlers"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/config"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/services"
	"github.com/isdelr/devblogs-be/internal/websocket"
)

// Deps holds everything the router needs.
type Deps struct {
	Config   *config.Config
	Tokens   *auth.TokenService
	Users    services.UserServiceProvider
	Blogs    services.BlogServiceProvider
	Contacts services.ContactServiceProvider
	Thoughts services.ThoughtServiceProvider
	Events   services.EventServiceProvider
	Stats    handlers.StatsSource
	Hub      *websocket.Hub
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(d.Config.IsProduction()))
	r.Use(maxBodySize(d.Config.MaxRequestBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apperr.Write(w, apperr.NotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apperr.Write(w, apperr.Validation("Method not allowed").WithStatus(http.StatusMethodNotAllowed))
	})

	// Initialize handlers
	sessions := handlers.NewSessions(d.Tokens, d.Config.IsProduction())
	userHandler := handlers.NewUserHandler(d.Users, sessions)
	adminHandler := handlers.NewAdminHandler(d.Users, sessions)
	eventHandler := handlers.NewEventHandler(d.Events)
	statsHandler := handlers.NewStatsHandler(d.Stats)
	blogHandler := handlers.NewBlogHandler(d.Blogs)
	contactHandler := handlers.NewContactHandler(d.Contacts, d.Users)
	thoughtHandler := handlers.NewThoughtHandler(d.Thoughts, d.Users)
	feedHandler := handlers.NewFeedHandler(d.Hub, d.Config.AllowedOrigins())

	session := auth.SessionMiddleware(d.Tokens)
	adminOnly := auth.RequireRoles(models.RoleAdmin)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/add", userHandler.Register)
		r.Post("/authenticate", userHandler.Login)
		r.Post("/logout", userHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(session)
			r.Get("/getuser", userHandler.GetMe)
			r.Get("/getbyid/{id}", userHandler.GetByID)
			r.Get("/getbyemail/{email}", userHandler.GetByEmail)
			r.Put("/update", userHandler.Update)
			r.Delete("/delete/{id}", userHandler.Delete)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)
		r.Post("/logout", adminHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(session, adminOnly)
			r.Put("/updateRole/{id}", adminHandler.UpdateRole)
			r.Delete("/delete/{id}", adminHandler.Delete)
			r.Get("/getall", adminHandler.GetAll)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/stats", statsHandler.Get)
		})
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/getbyid/{id}", blogHandler.Get)
		r.Get("/getall", blogHandler.GetAll)
		r.Get("/getbycategory/{category}", blogHandler.GetByCategory)
		r.Get("/getbyemail/{email}", blogHandler.GetByEmail)
		r.Get("/feed", feedHandler.Serve)

		r.Group(func(r chi.Router) {
			r.Use(session)
			r.Post("/add", blogHandler.Create)
			r.Get("/getbyuser", blogHandler.GetMine)
			r.Put("/update/{id}", blogHandler.Update)
			r.Delete("/delete/{id}", blogHandler.Delete)
		})
	})

	r.Route("/contact", func(r chi.Router) {
		r.Use(session)
		r.Post("/add", contactHandler.Create)
		r.Put("/update/{id}", contactHandler.Update)
		r.Delete("/delete/{id}", contactHandler.Delete)
		r.Get("/getbyid/{id}", contactHandler.Get)
		r.Get("/getbyemail/{email}", contactHandler.GetByEmail)
		r.With(adminOnly).Get("/getall", contactHandler.GetAll)
	})

	r.Route("/thought", func(r chi.Router) {
		r.Use(session)
		r.Post("/add", thoughtHandler.Create)
		r.Put("/update/{id}", thoughtHandler.Update)
		r.Delete("/delete/{id}", thoughtHandler.Delete)
		r.Get("/getbyid/{id}", thoughtHandler.Get)
		r.Get("/getbyemail/{email}", thoughtHandler.GetByEmail)
		r.With(adminOnly).Get("/getall", thoughtHandler.GetAll)
	})

	return r
}

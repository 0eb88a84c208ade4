// Package api implements the HTTP surface of the server: routing, the
// authorization gate, and the request handlers over the service layer.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/ratelimit"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/store/sqlite"
)

// Services bundles the service layer consumed by the HTTP server.
type Services struct {
	Auth         *service.AuthService
	Libraries    *service.LibraryService
	Users        *service.UserService
	Catalog      *service.CatalogService
	Associations *service.AssociationService
	Seeder       *service.Seeder
}

// Server is the HTTP server for the catalog API.
type Server struct {
	config   *config.Config
	store    *sqlite.Store
	services *Services

	authority auth.Authority
	scopes    *scope.Resolver

	loginLimiter *ratelimit.KeyedRateLimiter

	router *chi.Mux
	logger *slog.Logger
}

// NewServer creates a fully-routed API server.
func NewServer(cfg *config.Config, store *sqlite.Store, authority auth.Authority, scopes *scope.Resolver, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		config:       cfg,
		store:        store,
		services:     services,
		authority:    authority,
		scopes:       scopes,
		loginLimiter: ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst),
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/setup", s.handleSetupRequired)
			r.With(s.limitLogin).Post("/setup", s.handleSetup)
			r.With(s.limitLogin).Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.With(s.requireGrant(policyAnyValid)).Post("/logout", s.handleLogout)
		})

		r.With(s.requireGrant(policyAnyValid)).Get("/me", s.handleMe)

		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireGrant(policySuperuser))
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.Route("/libraries", func(r chi.Router) {
			r.With(s.requireGrant(policySuperuser)).Get("/", s.handleListLibraries)
			r.With(s.requireGrant(policySuperuser)).Post("/", s.handleCreateLibrary)

			r.Route("/{libraryID}", func(r chi.Router) {
				r.With(s.requireGrant(policyAnyValid)).Get("/", s.handleGetLibrary)
				r.With(s.requireGrant(policySuperuser)).Patch("/", s.handleUpdateLibrary)
				r.With(s.requireGrant(policySuperuser)).Delete("/", s.handleDeleteLibrary)

				// Everything inside a library is gated on a grant for
				// that library's scope.
				r.Group(func(r chi.Router) {
					r.Use(s.requireGrant(policyRegular))
					s.catalogRoutes(r)
				})
			})
		})

		r.With(s.requireNotProduction).Post("/admin/reseed", s.handleReseed)
	})
}

// catalogRoutes registers the per-library catalog and association routes.
func (s *Server) catalogRoutes(r chi.Router) {
	r.Route("/authors", func(r chi.Router) {
		r.Get("/", s.handleListAuthors)
		r.Post("/", s.handleCreateAuthor)
		r.Get("/{id}", s.handleGetAuthor)
		r.Patch("/{id}", s.handleUpdateAuthor)
		r.Delete("/{id}", s.handleDeleteAuthor)

		r.Put("/{id}/volumes/{volumeID}", s.handleIncludeAuthorInVolume)
		r.Delete("/{id}/volumes/{volumeID}", s.handleExcludeAuthorFromVolume)
		r.Put("/{id}/series/{seriesID}", s.handleIncludeAuthorInSeries)
		r.Delete("/{id}/series/{seriesID}", s.handleExcludeAuthorFromSeries)
		r.Put("/{id}/stories/{storyID}", s.handleIncludeAuthorInStory)
		r.Delete("/{id}/stories/{storyID}", s.handleExcludeAuthorFromStory)
	})

	r.Route("/series", func(r chi.Router) {
		r.Get("/", s.handleListSeries)
		r.Post("/", s.handleCreateSeries)
		r.Get("/{id}", s.handleGetSeries)
		r.Patch("/{id}", s.handleUpdateSeries)
		r.Delete("/{id}", s.handleDeleteSeries)

		r.Put("/{id}/stories/{storyID}", s.handleIncludeStoryInSeries)
		r.Delete("/{id}/stories/{storyID}", s.handleExcludeStoryFromSeries)
	})

	r.Route("/stories", func(r chi.Router) {
		r.Get("/", s.handleListStories)
		r.Post("/", s.handleCreateStory)
		r.Get("/{id}", s.handleGetStory)
		r.Patch("/{id}", s.handleUpdateStory)
		r.Delete("/{id}", s.handleDeleteStory)
	})

	r.Route("/volumes", func(r chi.Router) {
		r.Get("/", s.handleListVolumes)
		r.Post("/", s.handleCreateVolume)
		r.Get("/{id}", s.handleGetVolume)
		r.Patch("/{id}", s.handleUpdateVolume)
		r.Delete("/{id}", s.handleDeleteVolume)

		r.Put("/{id}/stories/{storyID}", s.handleAddStoryToVolume)
		r.Delete("/{id}/stories/{storyID}", s.handleRemoveStoryFromVolume)
	})
}

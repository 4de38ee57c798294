package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/juho05/log"

	"github.com/gunnarhm/mkcontrol/config"
)

func (h *Handler) registerMiddlewares() {
	h.Router.Use(recoverPanic)
	if config.BehindProxy() {
		h.Router.Use(middleware.RealIP)
	}
	h.Router.Use(middleware.RequestID)
	h.Router.Use(middleware.Timeout(60 * time.Second))
	h.Router.Use(logRequest)
	h.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           int((15 * time.Minute).Seconds()),
	}))
}

func (h *Handler) RegisterRoutes() {
	if h.Router == nil {
		h.Router = chi.NewRouter()
	}
	h.registerMiddlewares()
	h.registerStaticRoutes()

	limit := rateLimit(config.RateLimitTokens(), config.RateLimitInterval())

	// Browser surface: every route carries the gate matching the auth state
	// it requires; mismatches redirect to the state's entry page.
	h.Router.Group(func(r chi.Router) {
		r.Use(csrf)
		r.With(h.unconfiguredOnly).Get("/setup", h.setupPage)
		r.With(h.unconfiguredOnly, limit).Post("/setup", h.setup)
		r.With(h.noauth).Get("/login", h.loginPage)
		r.With(h.noauth, limit).Post("/login", h.login)
		r.With(h.auth).Get("/logout", h.logout)
		r.With(h.auth).Get("/", h.controlPage)
		r.With(h.auth).Get("/change-password", h.changePasswordPage)
		r.With(h.auth).Post("/change-password", h.changePassword)
	})

	// JSON API: same cookie auth, structured errors instead of redirects.
	h.Router.Group(func(r chi.Router) {
		r.Use(h.authAPI)
		r.Get("/status", h.status)
		r.Post("/action", h.action)
	})
}

func (h *Handler) registerStaticRoutes() {
	h.Router.With(staticCache(24*time.Hour)).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.StaticFS))))

	h.Router.With(staticCache(7*24*time.Hour)).Get("/favicon.svg", h.staticFile("favicon.svg", "image/svg+xml"))
	h.Router.With(staticCache(7*24*time.Hour)).Get("/favicon.ico", h.staticFile("favicon.svg", "image/svg+xml"))
	h.Router.Get("/manifest.json", h.staticFile("manifest.json", "application/manifest+json"))
}

func (h *Handler) staticFile(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readStatic(h.StaticFS, name)
		if err != nil {
			log.Errorf("Failed to read embedded asset %s: %s", name, err)
			clientError(w, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}

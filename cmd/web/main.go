package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/juho05/log"

	mkcontrol "github.com/gunnarhm/mkcontrol"

	"github.com/gunnarhm/mkcontrol/actions"
	"github.com/gunnarhm/mkcontrol/config"
	"github.com/gunnarhm/mkcontrol/handlers"
	"github.com/gunnarhm/mkcontrol/repos/file"
	"github.com/gunnarhm/mkcontrol/services"
)

func run() error {
	handler := handlers.NewHandler()

	settingsRepo := file.NewSettingsRepository(config.SettingsFile())
	handler.AuthService = services.NewAuthService(settingsRepo, config.SessionTTL())
	handler.Dispatcher = actions.NewDispatcher(actions.NewOsaExecutor(config.MediaKeyHelper()), config.ActionConcurrency())

	// Idle sessions are reaped lazily by Validate; the periodic prune just
	// bounds table and file growth between visits.
	go func() {
		for range time.Tick(time.Hour) {
			handler.AuthService.PruneExpiredSessions()
		}
	}()

	var err error
	handler.Renderer, err = handlers.NewRenderer(mkcontrol.HTMLFS)
	if err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}

	handler.StaticFS = mkcontrol.StaticFS
	handler.RegisterRoutes()

	if !handler.AuthService.IsConfigured() {
		log.Info("No password set, first-run setup via web UI")
	}

	addr := fmt.Sprintf(":%d", config.Port())
	log.Infof("Listening on %s...", addr)
	return http.ListenAndServe(addr, handler)
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	err := run()
	if err != nil {
		log.Fatalf("%s", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/league-tracker/internal/config"
	"github.com/AdamBeresnev/league-tracker/internal/db"
	"github.com/AdamBeresnev/league-tracker/internal/live"
	"github.com/AdamBeresnev/league-tracker/internal/middleware"
	"github.com/AdamBeresnev/league-tracker/internal/service"
	"github.com/AdamBeresnev/league-tracker/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

type application struct {
	cfg            *config.Config
	sessionManager *scs.SessionManager
	userStore      *store.UserStore
	users          *service.UserService
	tournaments    *service.TournamentService
	matches        *service.MatchService
	hub            *live.Hub
}

func newApplication(cfg *config.Config, database *sqlx.DB, sessionManager *scs.SessionManager, hub *live.Hub) *application {
	userStore := store.NewUserStore(database)
	tournamentStore := store.NewTournamentStore(database)

	return &application{
		cfg:            cfg,
		sessionManager: sessionManager,
		userStore:      userStore,
		users:          service.NewUserService(userStore),
		tournaments:    service.NewTournamentService(tournamentStore),
		matches:        service.NewMatchService(tournamentStore, hub),
		hub:            hub,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database := db.InitDB(cfg.DatabasePath)
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub()
	go hub.Run(ctx)

	app := newApplication(cfg, database, sessionManager, hub)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

package main

import (
	"net/http"
	"time"

	"badminton-manager/internal/config"
	"badminton-manager/internal/db"
	"badminton-manager/internal/logger"
	"badminton-manager/internal/service"
	"badminton-manager/internal/store"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	appLogger := logger.New("info")
	cfg := config.Load(appLogger)
	appLogger = logger.New(cfg.LogLevel)
	log.Logger = appLogger

	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	kv := store.NewKV(database)
	a := &app{
		logger:   appLogger,
		kv:       kv,
		players:  store.NewPlayerStore(kv),
		courts:   store.NewCourtStore(kv),
		shuttles: store.NewShuttleStore(kv),
		history:  store.NewHistoryStore(kv),
		queue:    store.NewQueueStore(kv),
		days:     store.NewDayStore(kv),
	}
	if err := a.loadStores(); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to hydrate stores")
	}

	a.roster = service.NewRosterService(appLogger, a.players, a.courts, a.shuttles, a.days)
	a.queueSvc = service.NewQueueService(appLogger, a.players, a.courts, a.queue)
	a.matches = service.NewMatchService(appLogger, a.players, a.courts, a.shuttles, a.history, a.queue, a.days)
	a.daySvc = service.NewDayService(appLogger, a.days, a.players, a.courts, a.shuttles, a.history, a.queueSvc)
	a.selection = service.NewSelection(service.NewShuffler())

	// Heal any player stranded in "queue" status by an edit that never
	// landed.
	if err := a.queueSvc.Reconcile(); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to reconcile queue state")
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)
	a.sessions = sessionManager

	router := newRouter(a)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(router)

	addr := ":" + cfg.ServerPort
	appLogger.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, handler); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

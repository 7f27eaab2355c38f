package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/therapyplatform/practice-system/internal/api"
	"github.com/therapyplatform/practice-system/internal/core/ports"
	"github.com/therapyplatform/practice-system/internal/core/service"
	mongodb "github.com/therapyplatform/practice-system/internal/infrastructure/db/mongo"
	redisdb "github.com/therapyplatform/practice-system/internal/infrastructure/db/redis"
	"github.com/therapyplatform/practice-system/internal/infrastructure/directory"
	"github.com/therapyplatform/practice-system/internal/infrastructure/queue"
	"github.com/therapyplatform/practice-system/internal/pkg/config"
	"github.com/therapyplatform/practice-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Session store: restore runs before the server accepts traffic so
	// a returning user is never misread as anonymous.
	store := service.NewSessionStore(redisdb.NewSessionKV(rdb), log)
	store.Restore(ctx)

	// --- Identity directory ---
	var dir ports.Directory
	if cfg.DemoDirectory {
		dir = directory.NewMemory(directory.DemoIdentities(), cfg.DemoAuthDelay)
		log.Warn().Msg("using fixed demo directory with shared password")
	} else {
		mongoDir := mongodb.NewDirectoryRepository(db)
		if cfg.Env == "development" {
			for _, identity := range directory.DemoIdentities() {
				if err := mongoDir.Upsert(ctx, identity, "password"); err != nil {
					log.Error().Err(err).Str("email", identity.Email).Msg("directory seed failed")
				}
			}
		}
		dir = mongoDir
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	patients := mongodb.NewPatientRepository(db)
	practitioners := mongodb.NewPractitionerRepository(db)
	appointments := mongodb.NewAppointmentRepository(db)
	sessions := mongodb.NewTherapySessionRepository(db)

	deps := api.Dependencies{
		Mongo:           db,
		Redis:           rdb,
		Store:           store,
		Guard:           service.NewRouteGuard(store),
		Auth:            service.NewAuthService(dir, store, dispatcher, cfg.JWTSecret, cfg.AuthTimeout, log),
		Roster:          service.NewRosterService(patients, practitioners, log),
		Schedule:        service.NewScheduleService(appointments, sessions, log),
		Analytics:       service.NewAnalyticsService(patients, practitioners, appointments, sessions),
		Audit:           dispatcher,
		LoginRatePerMin: cfg.LoginRatePerMin,
		LoginRateBurst:  cfg.LoginRateBurst,
	}

	e := api.NewRouter(deps)
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

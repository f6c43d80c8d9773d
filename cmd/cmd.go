package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"happy-thoughts-backend/internal/config"
	"happy-thoughts-backend/internal/database"
	"happy-thoughts-backend/internal/handlers"
	"happy-thoughts-backend/internal/repository"
	"happy-thoughts-backend/internal/services"
	"happy-thoughts-backend/internal/static"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		handler http.Handler
		cleanup = func() {}
	)
	if cfg.Database.Driver == config.DriverStatic {
		handler, err = buildStatic(ctx, cfg)
	} else {
		handler, cleanup, err = buildAPI(ctx, cfg)
	}
	if err != nil {
		// log.Fatal exits without running defers
		cleanup()
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to initialize")
	}
	defer cleanup()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown; stopping
	// ctx ends the Redis subscriber and the feed goroutines exit on write errors.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stop()

	log.Info().Msg("Server exited")
}

// buildAPI connects the configured store and wires the full API. The
// returned cleanup closes every connection that was opened.
func buildAPI(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	credentials, err := services.NewCredentials(cfg.JWT.Secret, cfg.JWT.BcryptCost)
	if err != nil {
		return nil, cleanup, err
	}

	// Initialize repositories
	var (
		thoughtRepo repository.ThoughtRepository
		userRepo    repository.UserRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.Database.Mongo.URL, cfg.Database.Mongo.Database)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
			}
		})
		thoughtRepo = repository.NewMongoThoughtRepository(db)
		userRepo = repository.NewMongoUserRepository(db)
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.Database.Postgres.DSN())
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, db.Close)
		thoughtRepo = repository.NewPostgresThoughtRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		thoughtRepo = store.Thoughts()
		userRepo = store.Users()
	default:
		return nil, cleanup, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
	}

	rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, cleanup, err
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
	}

	// Initialize services
	hub := services.NewFeedHub()
	notifier := services.NewNotifier(rdb, hub)
	if err := notifier.Start(ctx); err != nil {
		return nil, cleanup, err
	}
	userService := services.NewUserService(userRepo, credentials)
	thoughtService := services.NewThoughtService(thoughtRepo, notifier)

	return handlers.NewRouter(userService, thoughtService, hub), cleanup, nil
}

// buildStatic loads the read-only dataset and wires the static router
func buildStatic(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	var getter static.ObjectGetter
	if _, _, ok := static.ParseS3URL(cfg.Static.Source); ok {
		client, err := static.NewS3Client(ctx, static.S3Options{
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		getter = client
	}

	catalog, err := static.Load(ctx, cfg.Static.Source, getter)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("source", cfg.Static.Source).
		Int("thoughts", catalog.Len()).
		Msg("Static thoughts loaded")

	return handlers.NewStaticRouter(catalog), nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

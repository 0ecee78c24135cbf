package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/estatehub/internal/auth"
	"github.com/stwalsh4118/estatehub/internal/config"
	"github.com/stwalsh4118/estatehub/internal/database"
	"github.com/stwalsh4118/estatehub/internal/handlers"
	"github.com/stwalsh4118/estatehub/internal/jobs"
	"github.com/stwalsh4118/estatehub/internal/logger"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/notify"
	"github.com/stwalsh4118/estatehub/internal/repository"
	"github.com/stwalsh4118/estatehub/internal/services"
	"github.com/stwalsh4118/estatehub/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting EstateHub API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"persistence": cfg.Persistence.Enabled,
	})

	ctx := context.Background()
	st := store.NewMemoryStore()

	// Snapshot persistence is optional; without it state lives only in memory.
	var (
		db          *database.Database
		snapshotJob *jobs.SnapshotJob
		pinger      handlers.Pinger
	)
	if cfg.Persistence.Enabled {
		db, err = database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()
		pinger = db

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to apply database schema", err, nil)
		}

		snapshots := repository.NewSnapshotRepository(db)
		restored, err := restoreLatest(ctx, snapshots, st)
		if err != nil {
			log.Fatal("Failed to restore snapshot", err, nil)
		}
		if restored {
			log.Info("Restored marketplace snapshot", map[string]interface{}{
				"properties": len(st.ListProperties()),
				"users":      len(st.ListUsers()),
			})
		}

		snapshotJob, err = jobs.NewSnapshotJob(st, snapshots, cfg.Persistence.Schedule, jobs.DefaultRetention, log)
		if err != nil {
			log.Fatal("Failed to schedule snapshots", err, map[string]interface{}{
				"schedule": cfg.Persistence.Schedule,
			})
		}
	}

	if cfg.Server.SeedDemo && len(st.ListUsers()) == 0 {
		if err := store.SeedDemoData(st); err != nil {
			log.Fatal("Failed to seed demo data", err, nil)
		}
		log.Info("Loaded demo catalogue", map[string]interface{}{
			"properties": len(st.ListProperties()),
		})
	}

	// Notifications always land in the outbox; Redis is an extra sink.
	outbox := notify.NewOutbox(cfg.Notify.OutboxCapacity)
	notifiers := notify.Fanout{outbox}
	if cfg.Redis.Addr != "" {
		client, err := notify.NewRedisClient(ctx, notify.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error("Redis unavailable, notifications stay in the outbox", err, map[string]interface{}{
				"addr": cfg.Redis.Addr,
			})
		} else {
			defer closeRedis(client, log)
			notifiers = append(notifiers, notify.NewRedisPublisher(client, cfg.Notify.ChannelPrefix, log))
		}
	}

	engine := services.NewEngine(st, notifiers, log)
	profiles := services.NewProfileService(engine, cfg.Auth.AdminIDs)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	identities := auth.NewIdentityVerifier(cfg.Auth.IdentitySecret, cfg.Auth.IdentityIssuer)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Authenticate
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Authenticate(issuer))

	handlers.RegisterRoutes(router, handlers.Router{
		Health:   handlers.NewHealthHandler(pinger, st, cfg.Server.Env),
		Auth:     handlers.NewAuthHandler(profiles, identities, issuer),
		Listings: handlers.NewListingHandler(services.NewListingService(engine)),
		Reports:  handlers.NewReportHandler(services.NewModerationService(engine)),
		Profiles: handlers.NewProfileHandler(profiles, services.NewBookingService(engine), outbox),
		Admins:   profiles,
	})

	if snapshotJob != nil {
		snapshotJob.Start()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	// Requests have drained, so the final snapshot sees every command.
	if snapshotJob != nil {
		if err := snapshotJob.Stop(shutdownCtx); err != nil {
			log.Error("Final snapshot failed", err, nil)
		}
	}

	log.Info("Server exited", nil)
}

// restoreLatest loads the newest saved snapshot into st. It reports false
// when nothing has been saved yet.
func restoreLatest(ctx context.Context, snapshots repository.SnapshotRepository, st store.Store) (bool, error) {
	snap, err := snapshots.Latest(ctx)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	if err := st.Restore(*snap); err != nil {
		return false, fmt.Errorf("snapshot from %s is invalid: %w", snap.TakenAt.Format(time.RFC3339), err)
	}
	return true, nil
}

func closeRedis(client *redis.Client, log *logger.Logger) {
	if err := client.Close(); err != nil {
		log.Warn("Failed to close redis client", map[string]interface{}{"error": err.Error()})
	}
}

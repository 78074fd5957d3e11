package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobhunter/internal/auth"
	"github.com/justsurfingit/jobhunter/internal/config"
	"github.com/justsurfingit/jobhunter/internal/database"
	"github.com/justsurfingit/jobhunter/internal/handlers"
	"github.com/justsurfingit/jobhunter/internal/logger"
	"github.com/justsurfingit/jobhunter/internal/repository"
	"github.com/justsurfingit/jobhunter/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load configuration (.env is optional)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Mode)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database connection
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	// 3. Core services
	tokens := auth.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.Expire, newRevoker(ctx, cfg, log))
	jobService := services.NewJobService(store, log)
	authService := services.NewAuthService(store, tokens, log)

	llmService, err := services.NewLLMService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	switch {
	case errors.Is(err, services.ErrLLMDisabled):
		log.Warn("GEMINI_API_KEY not set, extraction and email analysis disabled")
	case err != nil:
		return err
	}

	// 4. Gmail watcher
	startEmailWatcher(ctx, cfg, store, jobService, llmService, log)

	// 5. Router
	gin.SetMode(cfg.Server.Mode)
	router := handlers.SetupRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RatePerMinute:  cfg.RateLimit.PerMinute,
		RateBurst:      cfg.RateLimit.Burst,
	}, handlers.Dependencies{
		Store:       store,
		JobService:  jobService,
		AuthService: authService,
		LLMService:  llmService,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.Store, error) {
	if cfg.Database.Driver == "mongo" {
		client, err := database.ConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(client, cfg.Database.Mongo.Database)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return repository.NewGormStore(db), nil
}

// newRevoker uses Redis when configured so logouts survive restarts and are
// shared between instances.
func newRevoker(ctx context.Context, cfg *config.Config, log *slog.Logger) auth.Revoker {
	addr := cfg.RedisAddr()
	if addr == "" {
		log.Warn("REDIS_HOST not set, token revocations are kept in memory")
		return auth.NewMemoryRevoker()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, token revocations are kept in memory", "addr", addr, "err", err)
		_ = client.Close()
		return auth.NewMemoryRevoker()
	}
	log.Info("redis connected", "addr", addr)
	return auth.NewRedisRevoker(client)
}

func startEmailWatcher(ctx context.Context, cfg *config.Config, store repository.Store, jobs *services.JobService, llm *services.LLMService, log *slog.Logger) {
	if llm == nil || cfg.Gmail.OwnerEmail == "" {
		log.Info("gmail watcher disabled (needs GEMINI_API_KEY and GMAIL_OWNER_EMAIL)")
		return
	}
	gmailService, err := auth.NewGmailService(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile)
	if err != nil {
		log.Warn("gmail watcher disabled", "err", err)
		return
	}
	log.Info("gmail service connected")
	services.NewEmailService(gmailService, store, jobs, llm, cfg.Gmail.OwnerEmail, cfg.Gmail.PollInterval, log).StartWatcher(ctx)
}

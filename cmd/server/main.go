// Command server runs the todo API.
//
// @title                       Todo API
// @version                     1.0.0
// @description                 Todo list API with Google sign-in, JWT sessions and FCM push notifications.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/todo-notify/todo-api/internal/api"
	"github.com/todo-notify/todo-api/internal/api/handler"
	"github.com/todo-notify/todo-api/internal/core/ports"
	"github.com/todo-notify/todo-api/internal/core/service"
	"github.com/todo-notify/todo-api/internal/infrastructure/config"
	mongodb "github.com/todo-notify/todo-api/internal/infrastructure/db/mongo"
	redisdb "github.com/todo-notify/todo-api/internal/infrastructure/db/redis"
	"github.com/todo-notify/todo-api/internal/infrastructure/googleauth"
	"github.com/todo-notify/todo-api/internal/infrastructure/push"
	"github.com/todo-notify/todo-api/internal/infrastructure/queue"
	"github.com/todo-notify/todo-api/pkg/logger"
)

const (
	serviceName     = "todo-api"
	version         = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Version: version,
	})

	// 1. Storage
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	todoRepo := mongodb.NewTodoRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, todoRepo); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("storage ready")

	// 2. External providers
	sender, err := newPushSender(ctx, cfg.Firebase, log)
	if err != nil {
		return err
	}

	idTokens, err := googleauth.NewIDTokenVerifier(ctx, cfg.Google.Audiences(),
		option.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if err != nil {
		return err
	}
	oauth := googleauth.NewOAuthProvider(googleauth.OAuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.CallbackURL,
	})

	// 3. Background work outlives requests; it is cancelled only after the drain.
	poolCtx, cancelPool := context.WithCancel(context.Background())
	defer cancelPool()
	pool := queue.NewPool(queue.Config{
		Workers:     cfg.Worker.Count,
		QueueSize:   cfg.Worker.QueueSize,
		TaskTimeout: cfg.Worker.TaskTimeout,
	}, logger.Component("queue"))
	pool.Start(poolCtx)

	// 4. Services
	sessions, err := service.NewSessionService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	revocations := redisdb.NewRevocationStore(rdb)
	notifier := service.NewNotificationService(sender, service.NotificationConfig{
		MaxConcurrency: cfg.Push.MaxConcurrency,
		SendTimeout:    cfg.Push.SendTimeout,
	}, logger.Component("notifications"))

	authService := service.NewAuthService(service.AuthDeps{
		Resolver:    service.NewIdentityService(userRepo, logger.Component("identity")),
		Issuer:      sessions,
		OAuth:       oauth,
		IDTokens:    idTokens,
		States:      redisdb.NewStateStore(rdb, 0),
		Revocations: revocations,
	}, logger.Component("auth"))

	// 5. HTTP
	router := api.NewRouter(api.RouterDeps{
		Log:         logger.Component("http"),
		Production:  cfg.IsProduction(),
		Version:     version,
		Guard:       service.NewAccessGuard(sessions, userRepo, revocations),
		Auth:        authService,
		Todos:       service.NewTodoService(todoRepo, userRepo, notifier, pool, logger.Component("todos")),
		Users:       service.NewUserService(userRepo, notifier, logger.Component("users")),
		ClientURL:   cfg.ClientURL,
		AdminEmails: cfg.AdminEmails,
		HealthChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Bool("push", notifier.Enabled()).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server listen: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("background tasks did not drain in time")
	}

	log.Info().Msg("API server stopped gracefully")
	return nil
}

// newPushSender returns nil when Firebase is not configured; the notification
// service then runs as a no-op.
func newPushSender(ctx context.Context, cfg config.FirebaseConfig, log zerolog.Logger) (ports.PushSender, error) {
	if !cfg.Enabled() {
		log.Warn().Msg("firebase credentials not set, push notifications disabled")
		return nil, nil
	}
	sender, err := push.NewFCMSender(ctx, push.Credentials{
		JSON:      cfg.CredentialsJSON,
		File:      cfg.CredentialsFile,
		ProjectID: cfg.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	return sender, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classbot.app/tutor/common/id"
	"classbot.app/tutor/common/llm"
	"classbot.app/tutor/common/logger"
	"classbot.app/tutor/common/otel"
	"classbot.app/tutor/core/config"
	"classbot.app/tutor/core/db"
	"classbot.app/tutor/internal/http/middleware"
	httprouter "classbot.app/tutor/internal/http/router"
	"classbot.app/tutor/internal/queue"
	"classbot.app/tutor/internal/service"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const sessionPurgeInterval = 15 * time.Minute

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "tutor server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	svcCfg := service.ConfigFrom(cfg)
	if err := svcCfg.Tutor.Validate(); err != nil {
		slog.ErrorContext(ctx, "invalid tutor config", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream)
	defer taskProducer.Close()

	llmClient, err := llm.New(llm.Config{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "llm client ready", "provider", cfg.LLM.Provider, "model", llmClient.Model())

	gateway := tutor.NewGateway(llmClient, tutor.GatewayConfig{
		MaxRetries:  cfg.LLM.MaxRetries,
		CallTimeout: cfg.LLM.CallTimeout,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		gateway,
		taskProducer,
		svcCfg,
	)

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeSessions(purgeCtx, services.Auth())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// a chat turn may spend the whole LLM budget including retries
		WriteTimeout: time.Duration(cfg.LLM.MaxRetries+1)*cfg.LLM.CallTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stopPurge()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		IsProduction:    cfg.IsProduction(),
		TraceHeaderName: cfg.Pipeline.TraceHeaderName,
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimit.ChatRPS,
			Burst: cfg.RateLimit.ChatBurst,
		},
	})

	return router
}

func purgeSessions(ctx context.Context, auth service.AuthService) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.PurgeExpired(ctx); err != nil {
				slog.WarnContext(ctx, "session purge failed", "error", err)
			}
		}
	}
}

const banner = `
 ██████╗██╗      █████╗ ███████╗███████╗██████╗  ██████╗ ████████╗
██╔════╝██║     ██╔══██╗██╔════╝██╔════╝██╔══██╗██╔═══██╗╚══██╔══╝
██║     ██║     ███████║███████╗███████╗██████╔╝██║   ██║   ██║
██║     ██║     ██╔══██║╚════██║╚════██║██╔══██╗██║   ██║   ██║
╚██████╗███████╗██║  ██║███████║███████║██████╔╝╚██████╔╝   ██║
 ╚═════╝╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═════╝  ╚═════╝    ╚═╝
                          tutor server
`

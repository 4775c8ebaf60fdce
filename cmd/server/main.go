package main

import (
	"context"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"askboard/internal/config"
	"askboard/internal/db"
	"askboard/internal/db/repositories"
	"askboard/internal/handlers"
	"askboard/internal/middleware"
	"askboard/internal/realtime"
	"askboard/internal/router"
	"askboard/internal/services"
	"askboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	htmlCacheSize = 4096
	htmlCacheTTL  = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var zapLogger *zap.Logger
	if cfg.IsDevEnvironment() {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	logger := zapLogger.Sugar()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	conn, err := db.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalw("database unavailable", "error", err)
	}

	questionRepo := repositories.NewQuestionRepository(conn)
	voteRepo := repositories.NewVoteRepository(conn)
	commentRepo := repositories.NewCommentRepository(conn)
	profileRepo := repositories.NewProfileRepository(conn)

	hub := realtime.NewHub(realtime.DefaultBufferSize, logger)
	var notifier realtime.Notifier = hub
	if strings.TrimSpace(cfg.RedisURL) != "" {
		logger.Info("using redis for cross-instance events")
		broker, err := realtime.NewRedisBroker(cfg.RedisURL, hub, logger)
		if err != nil {
			logger.Fatalw("redis connection failed", "error", err)
		}
		defer broker.Close()
		if err := broker.Start(ctx); err != nil {
			logger.Fatalw("redis subscribe failed", "error", err)
		}
		notifier = broker
	}

	reconciler := services.NewReconciler(questionRepo, notifier, logger)
	reconciler.Start(ctx)
	reconciler.StartScheduled(ctx, cfg.ReconcileInterval)

	htmlCache, err := utils.NewCache[template.HTML](htmlCacheSize, htmlCacheTTL)
	if err != nil {
		logger.Fatalw("failed to create html cache", "error", err)
	}

	voteService := services.NewVoteService(repositories.NewTransactor(conn), voteRepo, notifier, reconciler, logger)
	questionService := services.NewQuestionService(questionRepo, notifier, cfg.DailyQuestionLimit, logger)
	commentService := services.NewCommentService(questionRepo, commentRepo, profileRepo, notifier, htmlCache, cfg.CommentMaxLength, logger)
	pinService := services.NewPinService(commentRepo, notifier, logger)

	if !cfg.IsDevEnvironment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))
	r.Use(middleware.LoadUser(profileRepo, logger))
	r.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(r, router.Handlers{
		Votes:     handlers.NewVoteHandler(voteService, logger),
		Comments:  handlers.NewCommentHandler(commentService, logger),
		Pins:      handlers.NewPinHandler(pinService, logger),
		Questions: handlers.NewQuestionHandler(questionService, voteService, logger),
		Events:    handlers.NewEventHandler(notifier, logger),
	})

	// No WriteTimeout: event streams stay open.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Infow("askboard server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	// Cancelling ctx first lets open event streams and workers wind down.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"erp_analytics/pkg/api/dashboard"
	"erp_analytics/pkg/core/config"
	coreDashboard "erp_analytics/pkg/core/dashboard"
	"erp_analytics/pkg/core/narrator"
	"erp_analytics/pkg/core/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "analysis settings file (default $ANALYTICS_CONFIG or config/analytics.yaml)")
	snapshotDir := flag.String("snapshots", "", "snapshot directory used when no database is configured")
	dev := flag.Bool("dev", false, "development logging and gin debug mode")
	flag.Parse()

	logger := newLogger(*dev)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot vault: database when configured, files otherwise
	if cfg.Database.URL != "" {
		if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
			fmt.Printf("[WARNING] Database unavailable, using file snapshots: %v\n", err)
		} else {
			defer store.Close()
		}
	}
	repo := store.NewSnapshotRepo(store.GetPool(), *snapshotDir, logger.Named("store"))
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	if store.GetPool() != nil {
		fmt.Println("[STORE] Snapshots in PostgreSQL")
	} else {
		fmt.Println("[STORE] Snapshots on local disk")
	}

	if cfg.Gemini.APIKey != "" {
		fmt.Printf("[NARRATOR] Gemini (%s) with static fallback\n", cfg.Gemini.Model)
	} else {
		fmt.Println("[NARRATOR] GEMINI_API_KEY not set, using static summaries")
	}

	handler := dashboard.NewHandler(dashboard.Options{
		Engine:      coreDashboard.NewEngine(cfg.Analysis),
		Snapshots:   repo,
		Narrator:    narrator.New(cfg.Gemini.APIKey, cfg.Gemini.Model, logger.Named("narrator")),
		Logger:      logger.Named("api"),
		MaxUploadMB: int(cfg.Server.MaxUploadMB),
	})

	if !*dev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger.Named("http")))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	handler.RegisterRoutes(router.Group("/api"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("API server starting on :%s...\n", cfg.Server.Port)
	fmt.Println("  - POST   /api/upload/:kind")
	fmt.Println("  - GET    /api/dataset")
	fmt.Println("  - DELETE /api/dataset")
	fmt.Println("  - POST   /api/dashboard")
	fmt.Println("  - POST   /api/whatif")
	fmt.Println("  - POST   /api/sensitivity")
	fmt.Println("  - GET    /api/report")
	fmt.Println("  - GET    /api/snapshots")
	fmt.Println("  - GET    /api/snapshots/:id")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

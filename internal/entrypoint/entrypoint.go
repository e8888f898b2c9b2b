package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bruecksen/publications/internal/config"
	"github.com/bruecksen/publications/internal/database"
	http_controllers "github.com/bruecksen/publications/internal/http"
	"github.com/bruecksen/publications/internal/scheduler"
	"github.com/bruecksen/publications/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the backfill scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting publications server v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path, cfg.Import.TypesPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	importService := services.NewImportService(db, cfg.Import.FoldedMatch)

	// Start citekey backfill scheduler if enabled
	var backfillScheduler *scheduler.CitekeyBackfillScheduler
	if cfg.Backfill.Enabled {
		backfillScheduler = scheduler.NewCitekeyBackfillScheduler(db, cfg.Backfill.Schedule)
		if err := backfillScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start citekey backfill scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:          db,
		ImportService:     importService,
		BackfillScheduler: backfillScheduler,
		Version:           version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if backfillScheduler != nil {
			backfillScheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}

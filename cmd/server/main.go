package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/devmatch-hq/devmatch/internal/config"
	"github.com/devmatch-hq/devmatch/internal/db"
	"github.com/devmatch-hq/devmatch/internal/elastic"
	"github.com/devmatch-hq/devmatch/internal/handlers"
	"github.com/devmatch-hq/devmatch/internal/metrics"
	"github.com/devmatch-hq/devmatch/internal/middlewares"
	"github.com/devmatch-hq/devmatch/internal/routes"
	"github.com/devmatch-hq/devmatch/internal/services"
	"github.com/devmatch-hq/devmatch/internal/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg := config.Load()

	pg := db.Connect(cfg.DatabaseURL)
	db.Migrate(pg)
	if cfg.SeedDemoData {
		db.Seed(pg)
	}

	metrics.Register()

	es := elastic.Connect(cfg.ElasticURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sync := &workers.SyncWorker{DB: pg, ES: es, Interval: cfg.SyncInterval}
	go sync.Run(ctx)
	go sync.RetryDLQ(ctx, cfg.DLQRetryInterval)

	status := &workers.StatusWorker{
		Hackathons: services.NewHackathonService(pg),
		Interval:   cfg.StatusSweepInterval,
	}
	go status.Run(ctx)

	switch os.Getenv("GIN_MODE") {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())

	h := handlers.New(pg, cfg, es, sync)
	authMiddleware := middlewares.NewAuthMiddleware(cfg.JWTSecret)
	routes.Setup(r, h, authMiddleware)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware.Handler(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Server shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joefazee/flashpred/app"
	"github.com/joefazee/flashpred/app/api"
	"github.com/joefazee/flashpred/app/database"
	"github.com/joefazee/flashpred/app/keeper"
	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/settlement"
	"github.com/joefazee/flashpred/app/vault"
	"github.com/joefazee/flashpred/internal/deps"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/internal/sanitizer"
	"github.com/joefazee/flashpred/internal/store"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	lg := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{
		"service": "flashpred",
		"env":     cfg.Env,
	})

	var db *gorm.DB
	var engineStore settlement.Store
	if cfg.UseMemoryStore {
		engineStore = store.NewMemory()
	} else {
		db, err = database.New(&cfg.DB)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	var feeds oracle.FeedProvider = oracle.NewMemoryProvider()
	if cfg.Oracle.FeedBaseURL != "" {
		feeds = oracle.NewHTTPProvider(cfg.Oracle.FeedBaseURL, nil)
	}

	container := deps.NewContainer(
		db,
		vault.NewMemoryCustody(),
		feeds,
		oracle.NewReader(&cfg.Oracle),
		sanitizer.NewHTMLStripper(),
		lg,
	)

	r := gin.Default()
	r.Use(api.CorsMiddleware())

	apiV1 := r.Group("/api/v1")
	apiV1.GET("/healthz", api.HealthCheck)

	svc, st := settlement.Init(apiV1, settlement.Dependencies{
		DB:        container.DB,
		Store:     engineStore,
		Custody:   container.Custody,
		Feeds:     container.Feeds,
		Reader:    container.Reader,
		Config:    &cfg.Settlement,
		Sanitizer: container.Sanitizer,
		Logger:    container.Logger,
	})

	worker, err := keeper.NewWorker(svc, st, &cfg.Keeper, lg, nil)
	if err != nil {
		log.Fatal("Failed to create keeper worker:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go worker.Run(ctx)

	log.Printf("Starting flashpred API server on %s:%s", cfg.AppHost, cfg.AppPort)
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

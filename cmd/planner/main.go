package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"floorplanner/internal/common/config"
	"floorplanner/internal/common/middleware"
	"floorplanner/internal/planner/handlers"
	"floorplanner/internal/planner/repository"
	"floorplanner/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if os.Getenv("PORT") == "" {
		cfg.Port = "3003"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := service.NewSessionManager(repo, cfg.Editor.Settings, cfg.Editor.SessionOptions())
	plannerHandler := handlers.NewPlannerHandler(sessions)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins...))

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	handlers.NewHealthHandler(db).Register(app)
	handlers.RegisterDocs(app)

	// ============================================================
	// Planner Routes
	// ============================================================

	plannerHandler.Register(app.Group("/api"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Planner Service on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

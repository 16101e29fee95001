package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focuspoint-editor/internal/common/config"
	"focuspoint-editor/internal/common/logging"
	"focuspoint-editor/internal/common/middleware"
	"focuspoint-editor/internal/editor/handlers"
	"focuspoint-editor/internal/editor/repository"
	"focuspoint-editor/internal/editor/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Focus-Point Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("open db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		logger.Error("init db", "error", err)
		os.Exit(1)
	}

	registry := service.NewRegistry(repo, cfg.FrameSettle, logger)
	defer registry.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Focus-Point Editor",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	handlers.NewHealthHandler(repo).Register(app)
	handlers.NewEditorHandler(registry, repo, logger).Register(app)
	handlers.RegisterDocs(app)

	// ============================================================
	// Server Start
	// ============================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting editor service", "addr", addr, "env", cfg.Environment, "settle", cfg.FrameSettle)

	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

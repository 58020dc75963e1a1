package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resumebuilder/internal/cache"
	"resumebuilder/internal/config"
	"resumebuilder/internal/handlers"
	"resumebuilder/internal/layout"
	"resumebuilder/internal/logger"
	"resumebuilder/internal/repositories"
	"resumebuilder/internal/services"
	"resumebuilder/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app, cleanup, err := NewApp(cfg, log)
	if err != nil {
		log.Fatal("failed to create app", "error", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Info("starting server", "port", cfg.AppPort, "driver", cfg.DatabaseDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}

// NewApp wires the record store, layout engine, optional cache and event bus
// into a Fiber app. The returned cleanup releases every opened resource.
func NewApp(cfg *config.Config, log *logger.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Record Store ---
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeRepo)

	// --- Layout ---
	theme := layout.DefaultTheme()
	if cfg.LayoutThemeFile != "" {
		if theme, err = layout.LoadTheme(cfg.LayoutThemeFile); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	theme.Paginate = cfg.LayoutPaginate
	theme.LegacyTemplate = cfg.LayoutLegacyTemplate
	engine := layout.NewEngine(theme)

	// --- Document Cache (optional) ---
	var docs cache.DocumentCache
	if cfg.CacheEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Warn("document cache disabled", "error", err)
		} else {
			closers = append(closers, func() { _ = client.Close() })
			docs = cache.NewRedisCache(client, cfg.RedisTTL)
		}
	}

	// --- Events (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.EventsEnabled() {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange}, log)
		if err != nil {
			log.Warn("resume events disabled", "error", err)
			mqClient = nil
		} else {
			closers = append(closers, func() {
				if err := mqClient.Close(); err != nil {
					log.Error("error closing RabbitMQ client", "error", err)
				}
			})
		}
	}

	// --- Services ---
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	resumeService := services.NewResumeService(repo, engine, docs, publisher, log)

	if mqClient != nil && docs != nil {
		err := mqClient.ConsumeResumeEvents(cfg.RabbitMQExchange+".document-cache",
			[]string{rabbitmq.EventResumeDeleted}, resumeService.HandleResumeEvent)
		if err != nil {
			log.Warn("cache invalidation consumer not started", "error", err)
		}
	}

	// --- Handlers ---
	resumeHandler := handlers.NewResumeHandler(resumeService, log)
	healthHandler := handlers.NewHealthHandler(resumeService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "resumebuilder",
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		ErrorHandler: errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// --- Routes ---
	healthHandler.RegisterRoutes(app)
	resumeHandler.RegisterRoutes(app.Group("/api"))
	registerStatic(app, cfg.StaticDir, log)

	return app, cleanup, nil
}

func openRepository(cfg *config.Config) (repositories.ResumeRepository, func(), error) {
	if cfg.DatabaseDriver == "memory" {
		return repositories.NewMemoryResumeRepository(), func() {}, nil
	}

	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repositories.NewGORMResumeRepository(db), closeDB, nil
}

// registerStatic serves the built client from dir and falls back to its
// index.html for client-side routes. Nothing is served when dir is missing.
func registerStatic(app *fiber.App, dir string, log *logger.Logger) {
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Debug("static client not found", "dir", dir)
		return
	}

	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}

func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{
			"message": "Request failed",
			"error":   err.Error(),
		})
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labdesk/internal/announcement"
	"labdesk/internal/audit"
	"labdesk/internal/config"
	"labdesk/internal/meeting"
	"labdesk/internal/member"
	"labdesk/internal/middleware"
	"labdesk/internal/rotation"
	"labdesk/internal/seed"
	"labdesk/internal/store"
	"labdesk/internal/validator"
	"labdesk/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(context.Background()); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Println("Received signal:", sig)
		cancel()
	}()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg := config.NewConfig()

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	// Load the snapshot, or start empty
	st, existing, err := store.Open(logger, cfg.Storage.DataFile)
	if err != nil {
		logger.Error("Failed to open store", "path", cfg.Storage.DataFile, "error", err)
		return err
	}
	st.SetOnPersistError(func(err error) {
		logger.Warn("Snapshot write failed; in-memory state stands until the next successful write", "error", err)
	})

	auditor := audit.NewAuditor(logger, st)
	rotationManager := rotation.NewManager(logger, st, &auditor)
	memberManager := member.NewManager(logger, st, &auditor, &rotationManager)
	meetingManager := meeting.NewManager(logger, st, &auditor)
	announcementManager := announcement.NewManager(logger, st, &auditor)

	if !existing && cfg.Storage.SeedOnEmpty {
		logger.Info("No snapshot found, loading seed data")
		if err := seed.Load(ctx, &memberManager, &meetingManager, &rotationManager, &announcementManager); err != nil {
			logger.Error("Failed to load seed data", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "labdesk",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Logger(logger))

	handler := web.NewHandler(logger, validator.New(), st, &auditor, &memberManager, &meetingManager, &rotationManager, &announcementManager)
	web.RegisterRoutes(app, handler)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("Failed to shut down server", "error", err)
		}
	}()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server listening", "addr", addr, "environment", cfg.Server.Environment)
	return app.Listen(addr)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

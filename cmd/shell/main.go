package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/adapters/http/middleware"
	"trustbuild-shell/internal/adapters/http/routes"
	"trustbuild-shell/internal/adapters/persistence/securestore"
	"trustbuild-shell/internal/config"
	"trustbuild-shell/internal/core/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the general store
	db, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open general store: %v", err)
	}
	defer config.CloseStore()

	// Open the credential store
	creds, err := securestore.New(filepath.Join(cfg.DataDir, "secure"), cfg.SecureStoreKey)
	if err != nil {
		log.Fatalf("❌ Failed to open credential store: %v", err)
	}

	// Build services
	deps, err := routes.Build(db, creds, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build services: %v", err)
	}

	// Start network monitoring
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	deps.Monitor.Start(ctx)
	defer deps.Monitor.Stop()

	// Start the proactive token refresh job
	refresher := services.NewRefreshService(deps.API, deps.Session)
	if err := refresher.Start(cfg.RefreshSpec); err != nil {
		log.Fatalf("❌ Failed to start token refresh job: %v", err)
	}
	defer refresher.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TrustBuild Contractor Shell",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, deps, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Shell starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen("127.0.0.1:" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start shell: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down shell...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Shell stopped gracefully")
}

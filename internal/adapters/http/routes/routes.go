package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trustbuild-shell/internal/adapters/http/handlers"
	"trustbuild-shell/internal/adapters/http/middleware"
	"trustbuild-shell/internal/adapters/persistence/profilestore"
	"trustbuild-shell/internal/adapters/persistence/securestore"
	"trustbuild-shell/internal/config"
	"trustbuild-shell/internal/core/services"
	"trustbuild-shell/internal/pkg/navigation"
)

// Deps carries the services the route layer wires into handlers
type Deps struct {
	Creds    *securestore.Store
	Profiles *profilestore.Store
	Session  *services.SessionService
	API      *services.APIService
	Monitor  *services.NetworkMonitor
	Policy   *navigation.Policy
}

// Build constructs the shell's services from its stores
func Build(db *gorm.DB, creds *securestore.Store, cfg *config.Config) (*Deps, error) {
	profiles, err := profilestore.New(db)
	if err != nil {
		return nil, err
	}

	session := services.NewSessionService(creds, profiles)
	api := services.NewAPIService(cfg.APIURL, cfg.RequestTimeout, creds, profiles, session)
	monitor := services.NewNetworkMonitor(services.DefaultProbe(cfg.APIURL+"/health"), cfg.RequestTimeout)

	return &Deps{
		Creds:    creds,
		Profiles: profiles,
		Session:  session,
		API:      api,
		Monitor:  monitor,
		Policy:   navigation.NewPolicy(cfg.WebURL),
	}, nil
}

// Setup configures all routes for the shell
func Setup(app *fiber.App, deps *Deps, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.API, deps.Monitor)
	loginHandler := handlers.NewLoginHandler(deps.API, deps.Monitor)
	dashboardHandler := handlers.NewDashboardHandler(deps.Session, deps.API, deps.Policy, cfg.LoadTimeout)
	bridgeHandler := handlers.NewBridgeHandler(deps.API)

	// Session gate runs on every navigation
	app.Use(middleware.SessionGate(deps.Session))

	// Login screen; credential submissions get the stricter limiter
	app.Get("/", loginHandler.Show)
	app.Post("/login", middleware.AuthRateLimiter(), loginHandler.Submit)
	app.Post("/logout", loginHandler.Logout)

	// Embedded dashboard
	app.Get("/dashboard", dashboardHandler.Show)
	app.Get("/app/*", dashboardHandler.Proxy)

	// Bridge message channel
	app.Post("/bridge/message", bridgeHandler.Message)

	// Health
	app.Get("/healthz", healthHandler.HealthCheck)
}

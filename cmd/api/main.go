package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"gateway-core/internal/application"
	"gateway-core/internal/config"
	apiinfra "gateway-core/internal/infrastructure/api"
	"gateway-core/internal/infrastructure/encryption"
	"gateway-core/internal/infrastructure/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gatewaymiddleware "gateway-core/internal/infrastructure/middleware"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Connect to MongoDB with a bounded selection timeout so a dead store
	// fails requests instead of hanging them.
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(2 * time.Second)
	client, err := mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Initialize infrastructure (implementations)
	cipher := encryption.NewService()

	// Initialize repositories
	apiKeyRepo := repository.NewMongoAPIKeyRepository(db, cfg.APIKeyCollection)
	groupRepo := repository.NewMongoGroupRepository(db, cfg.GroupCollection)
	integrationRepo := repository.NewMongoIntegrationRepository(db, cfg.IntegrationCollection, true)
	sandboxRepo := repository.NewMongoIntegrationRepository(db, cfg.SandboxIntegrationCollection, false)

	// Initialize application services
	authService := application.NewAuthorizationService(apiKeyRepo, groupRepo, logger)
	internalAuth, err := application.NewInternalAuthService(cfg.ServiceToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize internal auth")
	}
	registryService := application.NewRegistryService(apiKeyRepo, groupRepo, logger)
	vaultService := application.NewVaultService(integrationRepo, sandboxRepo, cipher, logger)

	// Initialize handlers
	apiKeyHandler := apiinfra.NewAPIKeyHandler(registryService, logger)
	integrationHandler := apiinfra.NewIntegrationHandler(vaultService, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(gatewaymiddleware.Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Key/group administration, protected by the pre-shared service token
		r.Group(func(r chi.Router) {
			r.Use(gatewaymiddleware.InternalGate(internalAuth, logger))
			r.Post("/apikeys", apiKeyHandler.CreateAPIKey)
			r.Patch("/apikeys/{api_key}", apiKeyHandler.UpdateAPIKey)
			r.Post("/apikeys/groups", apiKeyHandler.CreateGroup)
			r.Get("/apikeys/groups", apiKeyHandler.ListGroups)
		})

		// Integration vault, protected by the route-permission gate
		r.Group(func(r chi.Router) {
			r.Use(gatewaymiddleware.RouteGate(authService, "integrations", logger))
			r.Post("/integrations", integrationHandler.Create(false))
			r.Get("/integrations/{provider_code}", integrationHandler.Get(false))
			r.Patch("/integrations/{provider_code}", integrationHandler.Update(false))
			r.Delete("/integrations/{provider_code}", integrationHandler.Delete(false))
		})

		// Sandbox variants carry their own route name so access to them can
		// be granted independently
		r.Group(func(r chi.Router) {
			r.Use(gatewaymiddleware.RouteGate(authService, "sandbox-integrations", logger))
			r.Post("/integrations/sandbox", integrationHandler.Create(true))
			r.Get("/integrations/sandbox/{provider_code}", integrationHandler.Get(true))
			r.Patch("/integrations/sandbox/{provider_code}", integrationHandler.Update(true))
			r.Delete("/integrations/sandbox/{provider_code}", integrationHandler.Delete(true))
		})
	})

	logger.Info().Str("addr", cfg.Addr).Msg("Starting API gateway")
	logger.Info().Msg("Swagger documentation available at /swagger/index.html")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

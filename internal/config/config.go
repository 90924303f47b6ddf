package config

import (
	"fmt"
	"os"
)

// Config holds process-wide configuration, loaded once at startup and passed
// into components at construction time. Nothing reads the environment after
// bootstrap.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	APIKeyCollection             string
	GroupCollection              string
	IntegrationCollection        string
	SandboxIntegrationCollection string

	// ServiceToken is the base64-encoded pre-shared secret protecting the
	// key and group administration endpoints.
	ServiceToken string
}

// FromEnv builds the configuration from the environment, applying defaults
// for optional values. SERVICE_TOKEN is mandatory.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:                         ":" + envOr("PORT", "8080"),
		MongoURI:                     envOr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:                envOr("MONGODB_DATABASE", "gateway"),
		APIKeyCollection:             envOr("APIKEY_COLLECTION", "api_keys"),
		GroupCollection:              envOr("GROUPS_COLLECTION", "groups"),
		IntegrationCollection:        envOr("INTEGRATION_COLLECTION", "integrations"),
		SandboxIntegrationCollection: envOr("SANDBOX_INTEGRATION_COLLECTION", "sandbox_integrations"),
		ServiceToken:                 os.Getenv("SERVICE_TOKEN"),
	}

	if cfg.ServiceToken == "" {
		return Config{}, fmt.Errorf("SERVICE_TOKEN environment variable is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Environment values recognized by the application.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration.
type Config struct {
	// AppName is the application name used in logs and the wrapping identity context.
	AppName string
	// AppVersion is the application version reported in logs and the wrapping identity context.
	AppVersion string
	// Environment is the deployment environment ("development" or "production").
	Environment string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KMSProvider is the KMS provider in use (e.g., "gcpkms", "awskms", "azurekeyvault", "hashivault").
	KMSProvider string
	// KMSKeyURI is the URI for the wrapping key in the KMS. Empty selects the local provider.
	KMSKeyURI string
	// ProviderTimeout is the per-call deadline for KMS wrap and unwrap round trips.
	ProviderTimeout time.Duration

	// LocalMasterKey is the base64-encoded 32-byte master key for the local
	// wrapping provider. Empty generates an ephemeral key at startup.
	LocalMasterKey string

	// WrapAlgorithm selects the AEAD used for envelope sealing ("aes-gcm" or "chacha20-poly1305").
	WrapAlgorithm string

	// KDFAlgorithm selects the key derivation function ("pbkdf2-sha256" or "argon2id").
	KDFAlgorithm string
	// KDFIterations is the PBKDF2 iteration count. Values below the derivation
	// engine's floor are rejected at startup.
	KDFIterations int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Application identity
		AppName:     env.GetString("APP_NAME", "credvault"),
		AppVersion:  env.GetString("APP_VERSION", "dev"),
		Environment: env.GetString("ENVIRONMENT", EnvDevelopment),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Key wrapping provider
		KMSProvider:     env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:       env.GetString("KMS_KEY_URI", ""),
		ProviderTimeout: env.GetDuration("PROVIDER_TIMEOUT_SECONDS", 10, time.Second),
		LocalMasterKey:  env.GetString("LOCAL_MASTER_KEY", ""),
		WrapAlgorithm:   env.GetString("WRAP_ALGORITHM", "aes-gcm"),

		// Key derivation
		KDFAlgorithm:  env.GetString("KDF_ALGORITHM", "pbkdf2-sha256"),
		KDFIterations: env.GetInt("KDF_ITERATIONS", 100000),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "credvault"),
	}
}

// IsProduction reports whether the application runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}

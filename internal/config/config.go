package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// NATS (zone batches in, alerts and instructions out)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	// Docker: Use nats://nats:4222 if running worker in Docker
	MessagingEnabled    bool
	NatsURL             string
	NatsConnectTimeout  time.Duration
	NatsReconnectWait   time.Duration
	NatsMaxReconnects   int
	NatsDrainTimeout    time.Duration // For graceful shutdown
	ZonesSubject        string
	ZonesQueue          string
	AlertsSubject       string
	InstructionsSubject string

	// Classification
	ClassificationConfigPath string
	GridRows                 int
	GridCols                 int

	// Alert lifecycle
	AlertsCooldown     time.Duration
	AlertsActiveWindow time.Duration
	AlertsMaxAge       time.Duration

	// Instructions
	InstructionsMaxExits  int
	InstructionsExportDir string

	// Swagger Configuration
	SwaggerHost string
	SwaggerPort int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "worker-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// NATS (configured for Docker Compose setup)
		MessagingEnabled:    getEnvBool("MESSAGING_ENABLED", false),
		NatsURL:             getNatsURL(),
		NatsConnectTimeout:  getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:   getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:   getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		NatsDrainTimeout:    getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),
		ZonesSubject:        getEnv("ZONES_SUBJECT", "crowd.zones"),
		ZonesQueue:          getEnv("ZONES_QUEUE", "crowdwatch-workers"),
		AlertsSubject:       getEnv("ALERTS_SUBJECT", "crowd.alerts"),
		InstructionsSubject: getEnv("INSTRUCTIONS_SUBJECT", "crowd.instructions"),

		// Classification
		ClassificationConfigPath: getEnv("CLASSIFICATION_CONFIG", DefaultClassificationPath),
		GridRows:                 getEnvInt("GRID_ROWS", 10),
		GridCols:                 getEnvInt("GRID_COLS", 10),

		// Alert lifecycle
		AlertsCooldown:     getEnvDuration("ALERTS_COOLDOWN", 2500*time.Millisecond),
		AlertsActiveWindow: getEnvDuration("ALERTS_ACTIVE_WINDOW", 10*time.Second),
		AlertsMaxAge:       getEnvDuration("ALERTS_MAX_AGE", 60*time.Second),

		// Instructions
		InstructionsMaxExits:  getEnvInt("INSTRUCTIONS_MAX_EXITS", 2),
		InstructionsExportDir: getEnv("INSTRUCTIONS_EXPORT_DIR", "exports"),

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),
		SwaggerPort: getEnvInt("SWAGGER_PORT", 8000),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := ParseDuration(value)
		if err == nil {
			return parsed
		}
		log.Warn().Err(err).Str("key", key).Dur("default", defaultValue).Msg("Invalid duration, using default")
	}
	return defaultValue
}

// ParseDuration accepts plain seconds ("2.5") or a Go duration ("2500ms").
// Negative, non-finite and out of range values are rejected.
func ParseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		nanos := secs * float64(time.Second)
		if math.IsNaN(nanos) || secs < 0 || nanos >= float64(math.MaxInt64) {
			return 0, fmt.Errorf("duration %q out of range", raw)
		}
		return time.Duration(nanos), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", raw)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	// Check for Docker-specific environment indicators
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	// Check for .dockerenv file
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}

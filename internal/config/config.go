// Package config provides application configuration loaded from environment
// variables with defaults and validation. Both binaries load the same Config:
// the gateway reads the HTTP server, upstream, and web-protection sections,
// the backend reads the gRPC listener and database sections.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/edulab/go-course-platform/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (empty means per-binary default)
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Service returns the configured service name, or fallback when
// OTEL_SERVICE_NAME is unset. Each binary passes its own fallback so the
// gateway and the backend report as distinct services by default.
func (c OTELConfig) Service(fallback string) string {
	if c.ServiceName != "" {
		return c.ServiceName
	}
	return fallback
}

// Config holds all configuration values for the platform.
type Config struct {
	// Gateway HTTP server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Gateway upstream
	BackendAddr      string        // host:port of the backend gRPC listener
	RPCTimeout       time.Duration // per-call deadline for forwarded RPCs
	StatusAwareBody  bool          // remap RPC codes to HTTP statuses instead of collapsing to 400
	MaxBodyBytes     int64         // request body cap

	// Backend
	GRPCAddr string // listen address for the course service
	DBPath   string // SQLite path

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Gateway HTTP server
		Port:              sysutil.Getenv("PORT", "8080"),
		ReadTimeout:       sysutil.Getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: sysutil.Getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      sysutil.Getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       sysutil.Getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    sysutil.Getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(sysutil.Getenv("GIN_MODE", "release")),

		// Gateway upstream
		BackendAddr:     sysutil.Getenv("BACKEND_ADDR", "localhost:50051"),
		RPCTimeout:      sysutil.Getdur("RPC_TIMEOUT", 10*time.Second),
		StatusAwareBody: sysutil.Getbool("GATEWAY_STATUS_AWARE_ERRORS", false),
		MaxBodyBytes:    int64(sysutil.Getint("MAX_BODY_BYTES", 1<<20)),

		// Backend
		GRPCAddr: sysutil.Getenv("GRPC_ADDR", ":50051"),
		DBPath:   sysutil.Getenv("DB_PATH", "courses.db"),

		// Logging
		LogLevel:  strings.ToLower(sysutil.Getenv("LOG_LEVEL", "info")),
		LogPretty: sysutil.Getbool("LOG_PRETTY", false),

		// Rate limiting
		RateRPS:   sysutil.Getfloat("RATE_RPS", 5.0),
		RateBurst: sysutil.Getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: sysutil.SplitCSV(sysutil.Getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: sysutil.Getbool("ENABLE_HSTS", false),
			HSTSMaxAge: sysutil.Getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     sysutil.Getbool("OTEL_ENABLED", false),
			Endpoint:    sysutil.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    sysutil.Getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: sysutil.Getenv("OTEL_SERVICE_NAME", ""),
			SampleRatio: sysutil.Getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.BackendAddr) == "" {
		return cfg, errors.New("BACKEND_ADDR must not be empty")
	}
	if cfg.RPCTimeout <= 0 {
		return cfg, errors.New("RPC_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.GRPCAddr) == "" {
		return cfg, errors.New("GRPC_ADDR must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

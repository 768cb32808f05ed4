package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by MODEL_BACKEND.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendStub   = "stub"
)

// Config holds all configuration for the triage service.
type Config struct {
	GRPCPort     string
	HTTPPort     string
	Environment  string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string

	Model ModelConfig
	Kafka KafkaConfig

	// HTTPRateLimit is the per-client request rate on the REST surface.
	// Zero disables the limiter.
	HTTPRateLimit float64
	HTTPRateBurst int
	HTTPMaxBody   int64

	EnableReflection bool
	TLSCertFile      string
	TLSKeyFile       string
	TLSCAFile        string
}

// ModelConfig selects and tunes the generative backend.
type ModelConfig struct {
	Backend string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	StubStatus      string
	StubExplanation string

	Timeout         time.Duration
	MaxAttempts     int
	RateLimitRPS    float64
	RateLimitBurst  int
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// KafkaConfig configures event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	TLS           bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// Load reads configuration from environment variables with sensible defaults
// and validates it.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads configuration without validating it, for tools that only
// need part of it. A .env file in the working directory is loaded first if
// present; variables already set in the environment win.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		GRPCPort:     getEnv("GRPC_PORT", "8090"),
		HTTPPort:     getEnv("HTTP_PORT", "9090"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Model: ModelConfig{
			Backend:         strings.ToLower(getEnv("MODEL_BACKEND", BackendGemini)),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			StubStatus:      getEnv("STUB_STATUS", "NORMAL"),
			StubExplanation: getEnv("STUB_EXPLANATION", "Stub backend: no model was consulted."),
			Timeout:         getEnvDuration("MODEL_TIMEOUT", 30*time.Second),
			MaxAttempts:     getEnvInt("MODEL_MAX_ATTEMPTS", 1),
			RateLimitRPS:    getEnvFloat("MODEL_RATE_LIMIT_RPS", 0),
			RateLimitBurst:  getEnvInt("MODEL_RATE_LIMIT_BURST", 1),
			BreakerFailures: uint32(getEnvInt("MODEL_BREAKER_FAILURES", 5)),
			BreakerCooldown: getEnvDuration("MODEL_BREAKER_COOLDOWN", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:         getEnv("KAFKA_TOPIC", "problempulse.triage"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", ""),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		HTTPRateLimit:    getEnvFloat("HTTP_RATE_LIMIT", 0),
		HTTPRateBurst:    getEnvInt("HTTP_RATE_BURST", 5),
		HTTPMaxBody:      int64(getEnvInt("HTTP_MAX_BODY_BYTES", 64<<10)),
		EnableReflection: getEnvBool("GRPC_REFLECTION", false),
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:        getEnv("TLS_CA_FILE", ""),
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model.Backend {
	case BackendGemini:
		if c.Model.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY or GOOGLE_API_KEY is required for the gemini backend"))
		}
	case BackendOpenAI:
		if c.Model.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai backend"))
		}
		if c.Model.OpenAIBaseURL == "" {
			errs = append(errs, errors.New("OPENAI_BASE_URL must not be empty"))
		}
	case BackendStub:
		if c.IsProduction() {
			errs = append(errs, errors.New("the stub backend is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MODEL_BACKEND %q (want gemini, openai or stub)", c.Model.Backend))
	}

	if c.Model.Timeout <= 0 {
		errs = append(errs, errors.New("MODEL_TIMEOUT must be positive"))
	}
	if c.Model.MaxAttempts < 1 {
		errs = append(errs, errors.New("MODEL_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Model.RateLimitRPS < 0 || c.HTTPRateLimit < 0 {
		errs = append(errs, errors.New("rate limits must not be negative"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// EventsEnabled reports whether Kafka publishing is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// TLSEnabled reports whether the gRPC server should serve TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

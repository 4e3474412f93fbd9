package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrConfigFileNotFound = errors.New("config file not found, using defaults and environment variables")

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Video     VideoConfig     `mapstructure:"video"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host        string          `mapstructure:"host"`
	Port        int             `mapstructure:"port"`
	MetricsPort int             `mapstructure:"metrics_port"`
	MaxUploadMB int             `mapstructure:"max_upload_mb"`
	CORS        CORSConfig      `mapstructure:"cors"`
	Auth        AuthConfig      `mapstructure:"auth"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           string   `mapstructure:"max_age"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SecretKey string `mapstructure:"secret_key"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	PerIP   int           `mapstructure:"per_ip"`
	Window  time.Duration `mapstructure:"window"`
}

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnableUpstream bool `mapstructure:"enable_upstream"`
}

type AnalysisConfig struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Temperature     float64       `mapstructure:"temperature"`
	SystemPrompt    string        `mapstructure:"system_prompt"`
	Instructions    []string      `mapstructure:"instructions"`
	Timeout         time.Duration `mapstructure:"timeout"`
	IncludeMetadata bool          `mapstructure:"include_metadata"`
	MaxFailures     uint32        `mapstructure:"max_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type ProvidersConfig struct {
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Google    ProviderConfig `mapstructure:"google"`
	Azure     AzureConfig    `mapstructure:"azure"`
	Bedrock   BedrockConfig  `mapstructure:"bedrock"`
}

type ProviderConfig struct {
	APIKey  string                 `mapstructure:"api_key"`
	BaseURL string                 `mapstructure:"base_url"`
	Options map[string]interface{} `mapstructure:"options"`
}

type AzureConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	APIVersion  string `mapstructure:"api_version"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type BedrockConfig struct {
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
}

type VideoConfig struct {
	BackendURL  string        `mapstructure:"backend_url"`
	MaxUploadMB int           `mapstructure:"max_upload_mb"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures uint32        `mapstructure:"max_failures"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TelemetryConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Topic   string `mapstructure:"topic"`
}

var globalConfig Config

// Load reads config.yaml from configPath (falling back to ./config and .)
// and overlays environment variables. A missing file is reported with
// ErrConfigFileNotFound but the defaults are still loaded.
func Load(configPath string) error {
	cfg, err := loadConfigFile(configPath, "config")
	if cfg == nil {
		return err
	}
	globalConfig = *cfg
	return err
}

func loadConfigFile(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultValues(v)
	if err := v.BindEnv("providers.openai.api_key", "PROVIDERS_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind openai api key: %w", err)
	}

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
		readErr = ErrConfigFileNotFound
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	return &cfg, readErr
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors.allowed_methods", []string{"POST", "GET", "OPTIONS"})
	v.SetDefault("server.cors.allow_credentials", false)
	v.SetDefault("server.cors.max_age", "600")
	v.SetDefault("server.auth.enabled", false)
	v.SetDefault("server.auth.secret_key", "")
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.per_ip", 30)
	v.SetDefault("server.rate_limit.window", "1m")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_upstream", true)

	v.SetDefault("analysis.provider", "openai")
	v.SetDefault("analysis.model", "gpt-4o")
	v.SetDefault("analysis.max_tokens", 500)
	v.SetDefault("analysis.temperature", 0)
	v.SetDefault("analysis.system_prompt", "")
	v.SetDefault("analysis.instructions", []string{})
	v.SetDefault("analysis.timeout", "60s")
	v.SetDefault("analysis.include_metadata", false)
	v.SetDefault("analysis.max_failures", 5)
	v.SetDefault("analysis.breaker_timeout", "30s")

	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "")
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.base_url", "")
	v.SetDefault("providers.google.api_key", "")
	v.SetDefault("providers.azure.api_key", "")
	v.SetDefault("providers.azure.endpoint", "")
	v.SetDefault("providers.azure.api_version", "2024-02-15-preview")
	v.SetDefault("providers.azure.use_identity", false)
	v.SetDefault("providers.bedrock.region", "us-east-1")
	v.SetDefault("providers.bedrock.access_key", "")
	v.SetDefault("providers.bedrock.secret_key", "")
	v.SetDefault("providers.bedrock.session_token", "")
	v.SetDefault("providers.bedrock.role_arn", "")

	v.SetDefault("video.backend_url", "http://localhost:8081/analyze")
	v.SetDefault("video.max_upload_mb", 512)
	v.SetDefault("video.timeout", "120s")
	v.SetDefault("video.max_failures", 5)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "sportlens")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("telemetry.kafka.enabled", false)
	v.SetDefault("telemetry.kafka.host", "localhost")
	v.SetDefault("telemetry.kafka.port", "9092")
	v.SetDefault("telemetry.kafka.topic", "sportlens.analyses")
}

func GetConfig() *Config {
	return &globalConfig
}

// MaxUploadBytes caps the image part accepted by the analysis routes.
func (s ServerConfig) MaxUploadBytes() int {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return s.MaxUploadMB << 20
}

func (v VideoConfig) MaxUploadBytes() int {
	if v.MaxUploadMB <= 0 {
		return 512 << 20
	}
	return v.MaxUploadMB << 20
}

// RequestBodyLimit is the framework-wide body limit. It has to fit the
// largest route, so per-route caps are checked in the handlers.
func (c *Config) RequestBodyLimit() int {
	return max(c.Server.MaxUploadBytes(), c.Video.MaxUploadBytes())
}

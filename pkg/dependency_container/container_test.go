package dependency_container

import (
	"testing"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/config"
	"github.com/NeuralTrust/SportLens/pkg/infra/telemetry/kafka"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			MaxUploadMB: 10,
			CORS: config.CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
				AllowedMethods: []string{"POST", "GET", "OPTIONS"},
				MaxAge:         "600",
			},
		},
		Analysis: config.AnalysisConfig{
			Provider:       "openai",
			Model:          "gpt-4o",
			MaxTokens:      500,
			Timeout:        time.Minute,
			MaxFailures:    5,
			BreakerTimeout: 30 * time.Second,
		},
		Providers: config.ProvidersConfig{
			OpenAI: config.ProviderConfig{APIKey: "sk-test"},
		},
		Video: config.VideoConfig{
			BackendURL:  "http://localhost:8081/analyze",
			Timeout:     2 * time.Minute,
			MaxFailures: 5,
		},
		Cache: config.CacheConfig{TTL: time.Hour},
	}
}

func TestNewContainer_MinimalConfig(t *testing.T) {
	c, err := NewContainer(ContainerDI{Cfg: baseConfig(), Logger: logrus.New()})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Cache)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.AnalysisRepository)
	assert.Empty(t, c.Exporters)
	assert.Nil(t, c.MiddlewareTransport.AuthMiddleware)

	h := c.HandlerTransport
	assert.NotNil(t, h.HomeHandler)
	assert.NotNil(t, h.AnalyzeImageHandler)
	assert.NotNil(t, h.AnalyzeVideoHandler)
	assert.NotNil(t, h.GetAnalysisHandler)
	assert.NotNil(t, h.ListAnalysesHandler)
	assert.NotNil(t, h.GetVersionHandler)
}

func TestNewContainer_AuthEnabled(t *testing.T) {
	cfg := baseConfig()
	cfg.Server.Auth = config.AuthConfig{Enabled: true, SecretKey: "secret"}

	c, err := NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New()})
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.JWTManager)
	assert.NotNil(t, c.MiddlewareTransport.AuthMiddleware)
}

func TestNewContainer_AuthWithoutSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.Server.Auth = config.AuthConfig{Enabled: true}

	_, err := NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New()})
	assert.ErrorIs(t, err, ErrMissingAuthSecret)
}

func TestNewContainer_VideoBackend(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"empty", "", ErrMissingVideoBackend},
		{"relative", "/analyze", ErrInvalidVideoBackend},
		{"not http", "ftp://video/analyze", ErrInvalidVideoBackend},
		{"localhost on server port", "http://localhost:8080/analyze", ErrVideoBackendLoop},
		{"loopback ip on server port", "http://127.0.0.1:8080/analyze", ErrVideoBackendLoop},
		{"ipv6 loopback on server port", "http://[::1]:8080/analyze", ErrVideoBackendLoop},
		{"unspecified on server port", "http://0.0.0.0:8080/analyze", ErrVideoBackendLoop},
		{"other local port", "http://localhost:8081/analyze", nil},
		{"remote host on same port", "http://video:8080/analyze", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Video.BackendURL = tt.url
			err := validateConfig(cfg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New()})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewContainer_VideoBackendMatchesServerHost(t *testing.T) {
	cfg := baseConfig()
	cfg.Server.Host = "sportlens.internal"
	cfg.Video.BackendURL = "http://sportlens.internal:8080/analyze"
	assert.ErrorIs(t, validateConfig(cfg), ErrVideoBackendLoop)

	cfg.Server.Port = 443
	cfg.Video.BackendURL = "https://localhost/analyze"
	assert.ErrorIs(t, validateConfig(cfg), ErrVideoBackendLoop)
}

func TestNewContainer_RateLimitNeedsPositiveLimit(t *testing.T) {
	for _, rl := range []config.RateLimitConfig{
		{Enabled: true, PerIP: 0, Window: time.Minute},
		{Enabled: true, PerIP: -1, Window: time.Minute},
		{Enabled: true, PerIP: 30, Window: 0},
	} {
		cfg := baseConfig()
		cfg.Server.RateLimit = rl
		_, err := NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New()})
		assert.ErrorIs(t, err, ErrInvalidRateLimit)
	}

	cfg := baseConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: false, PerIP: 0}
	assert.NoError(t, validateConfig(cfg))
}

func TestExporterConfigs(t *testing.T) {
	cfg := baseConfig()
	assert.Nil(t, exporterConfigs(cfg))

	cfg.Telemetry.Kafka = config.KafkaConfig{Enabled: true, Host: "kafka", Port: "9092", Topic: "sportlens.analyses"}
	configs := exporterConfigs(cfg)
	require.Len(t, configs, 1)
	assert.Equal(t, kafka.ExporterName, configs[0].Name)
	assert.Equal(t, "kafka", configs[0].Settings["host"])
	assert.Equal(t, "sportlens.analyses", configs[0].Settings["topic"])
}

func TestAnalysisSettings(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		s := analysisSettings(baseConfig())
		assert.Equal(t, "openai", s.Provider)
		assert.Equal(t, "sk-test", s.ProviderConfig.Credentials.ApiKey)
		assert.Equal(t, "gpt-4o", s.ProviderConfig.Model)
		assert.Zero(t, s.CacheTTL)
	})

	t.Run("cache ttl only when enabled", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Cache.Enabled = true
		assert.Equal(t, time.Hour, analysisSettings(cfg).CacheTTL)
	})

	t.Run("bedrock", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Analysis.Provider = "bedrock"
		cfg.Providers.Bedrock = config.BedrockConfig{Region: "eu-west-1", RoleARN: "arn:aws:iam::1:role/x"}
		s := analysisSettings(cfg)
		require.NotNil(t, s.ProviderConfig.Credentials.AwsBedrock)
		assert.Equal(t, "eu-west-1", s.ProviderConfig.Credentials.AwsBedrock.Region)
		assert.Empty(t, s.ProviderConfig.Credentials.ApiKey)
	})

	t.Run("azure", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Analysis.Provider = "azure"
		cfg.Providers.Azure = config.AzureConfig{APIKey: "k", Endpoint: "https://x.openai.azure.com", APIVersion: "2024-02-15-preview"}
		s := analysisSettings(cfg)
		require.NotNil(t, s.ProviderConfig.Credentials.Azure)
		assert.Equal(t, "https://x.openai.azure.com", s.ProviderConfig.Credentials.Azure.Endpoint)
		assert.Equal(t, "k", s.ProviderConfig.Credentials.ApiKey)
	})
}

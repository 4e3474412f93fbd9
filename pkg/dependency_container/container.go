package dependency_container

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	appAnalysis "github.com/NeuralTrust/SportLens/pkg/app/analysis"
	"github.com/NeuralTrust/SportLens/pkg/app/video"
	"github.com/NeuralTrust/SportLens/pkg/config"
	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	handlers "github.com/NeuralTrust/SportLens/pkg/handlers/http"
	"github.com/NeuralTrust/SportLens/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/SportLens/pkg/infra/cache"
	"github.com/NeuralTrust/SportLens/pkg/infra/database"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/infra/metrics"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	providersFactory "github.com/NeuralTrust/SportLens/pkg/infra/providers/factory"
	"github.com/NeuralTrust/SportLens/pkg/infra/repository"
	infraTelemetry "github.com/NeuralTrust/SportLens/pkg/infra/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/SportLens/pkg/middleware"
	"github.com/sirupsen/logrus"
)

const (
	metricsWorkers     = 4
	backendMaxBodySize = 64 << 20
)

var (
	ErrMissingAuthSecret   = errors.New("server.auth.enabled requires server.auth.secret_key")
	ErrMissingVideoBackend = errors.New("video.backend_url is required")
	ErrInvalidVideoBackend = errors.New("video.backend_url must be an absolute http(s) URL")
	ErrVideoBackendLoop    = errors.New("video.backend_url points at this server")
	ErrInvalidRateLimit    = errors.New("server.rate_limit requires per_ip > 0 and window > 0")
)

type Container struct {
	Cache               cache.Client
	DB                  *database.DB
	AnalysisRepository  analysis.Repository
	ProviderLocator     providersFactory.ProviderLocator
	MetricsWorker       metrics.Worker
	Exporters           []telemetry.Exporter
	JWTManager          jwt.Manager
	AnalysisService     appAnalysis.Service
	AnalysisFinder      appAnalysis.Finder
	VideoForwarder      video.Forwarder
	HandlerTransport    handlers.HandlerTransport
	MiddlewareTransport middleware.Transport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

// NewContainer builds every component from the loaded config. Redis, Postgres
// and Kafka are only dialed when a feature that needs them is enabled.
func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	c := &Container{}

	providerClient := httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.Analysis.Timeout))
	backendClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(cfg.Video.Timeout),
		httpx.WithMaxResponseBodySize(backendMaxBodySize),
	)

	if cfg.Cache.Enabled || cfg.Server.RateLimit.Enabled {
		cacheInstance, err := cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		c.Cache = cacheInstance
	}
	var analysisCache cache.Client
	if cfg.Cache.Enabled {
		analysisCache = c.Cache
	}

	if cfg.Database.Enabled {
		db, err := database.NewDB(di.Logger, &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.AnalysisRepository = repository.NewAnalysisRepository(db.DB)
	}

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporters(kafka.NewKafkaExporter()),
	)
	exporters, err := exporterLocator.Build(exporterConfigs(cfg))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize telemetry exporters: %w", err)
	}
	c.Exporters = exporters
	c.MetricsWorker = metrics.NewWorker(di.Logger, exporters)
	c.MetricsWorker.StartWorkers(metricsWorkers)

	// services
	c.ProviderLocator = providersFactory.NewProviderLocator(providerClient)
	c.AnalysisService = appAnalysis.NewService(
		di.Logger,
		c.ProviderLocator,
		httpx.NewCircuitBreaker("analysis-provider", cfg.Analysis.BreakerTimeout, cfg.Analysis.MaxFailures),
		analysisCache,
		c.AnalysisRepository,
		c.MetricsWorker,
		analysisSettings(cfg),
	)
	c.AnalysisFinder = appAnalysis.NewFinder(c.AnalysisRepository)
	c.VideoForwarder = video.NewForwarder(
		di.Logger,
		backendClient,
		httpx.NewCircuitBreaker("video-backend", cfg.Video.Timeout, cfg.Video.MaxFailures),
		c.MetricsWorker,
		cfg.Video.BackendURL,
		cfg.Video.Timeout,
	)

	// middleware
	c.MiddlewareTransport = middleware.Transport{
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
		CORSMiddleware: middleware.NewCORSMiddleware(
			cfg.Server.CORS.AllowedOrigins,
			cfg.Server.CORS.AllowedMethods,
			cfg.Server.CORS.AllowCredentials,
			nil,
			cfg.Server.CORS.MaxAge,
		),
		MetricsMiddleware: middleware.NewMetricsMiddleware(di.Logger),
	}
	if cfg.Server.RateLimit.Enabled {
		c.MiddlewareTransport.RateLimitMiddleware = middleware.NewRateLimitMiddleware(
			di.Logger,
			c.Cache.RedisClient(),
			cfg.Server.RateLimit.PerIP,
			cfg.Server.RateLimit.Window,
			nil,
		)
	}
	if cfg.Server.Auth.Enabled {
		if cfg.Server.Auth.SecretKey == "" {
			c.Close()
			return nil, ErrMissingAuthSecret
		}
		c.JWTManager = jwt.NewJwtManager(&cfg.Server.Auth)
		c.MiddlewareTransport.AuthMiddleware = middleware.NewAuthMiddleware(di.Logger, c.JWTManager)
	}

	// handlers
	c.HandlerTransport = handlers.HandlerTransport{
		HomeHandler:         handlers.NewHomeHandler(),
		AnalyzeImageHandler: handlers.NewAnalyzeImageHandler(di.Logger, c.AnalysisService, int64(cfg.Server.MaxUploadBytes())),
		AnalyzeVideoHandler: handlers.NewAnalyzeVideoHandler(di.Logger, c.VideoForwarder),
		GetAnalysisHandler:  handlers.NewGetAnalysisHandler(di.Logger, c.AnalysisFinder),
		ListAnalysesHandler: handlers.NewListAnalysesHandler(di.Logger, c.AnalysisFinder),
		GetVersionHandler:   handlers.NewGetVersionHandler(di.Logger),
	}

	return c, nil
}

// Close drains the metrics worker before closing the exporters it feeds,
// then the stores.
func (c *Container) Close() {
	if c.MetricsWorker != nil {
		c.MetricsWorker.Shutdown()
	}
	for _, exp := range c.Exporters {
		exp.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}

func validateConfig(cfg *config.Config) error {
	if err := validateVideoBackend(cfg); err != nil {
		return err
	}
	rl := cfg.Server.RateLimit
	if rl.Enabled && (rl.PerIP <= 0 || rl.Window <= 0) {
		return ErrInvalidRateLimit
	}
	return nil
}

// validateVideoBackend refuses a backend URL that loops back into this
// server: the relay would answer its own 404 JSON as a successful analysis.
func validateVideoBackend(cfg *config.Config) error {
	raw := cfg.Video.BackendURL
	if raw == "" {
		return ErrMissingVideoBackend
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidVideoBackend, raw)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	if port != strconv.Itoa(cfg.Server.Port) {
		return nil
	}
	if isLocalHost(u.Hostname()) || u.Hostname() == cfg.Server.Host {
		return fmt.Errorf("%w: %s", ErrVideoBackendLoop, raw)
	}
	return nil
}

func isLocalHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

func exporterConfigs(cfg *config.Config) []telemetry.ExporterConfig {
	if !cfg.Telemetry.Kafka.Enabled {
		return nil
	}
	return []telemetry.ExporterConfig{
		{
			Name: kafka.ExporterName,
			Settings: map[string]interface{}{
				"host":  cfg.Telemetry.Kafka.Host,
				"port":  cfg.Telemetry.Kafka.Port,
				"topic": cfg.Telemetry.Kafka.Topic,
			},
		},
	}
}

func analysisSettings(cfg *config.Config) appAnalysis.Settings {
	providerConfig := providers.Config{
		Model:        cfg.Analysis.Model,
		MaxTokens:    cfg.Analysis.MaxTokens,
		Temperature:  cfg.Analysis.Temperature,
		SystemPrompt: cfg.Analysis.SystemPrompt,
		Instructions: cfg.Analysis.Instructions,
	}

	p := cfg.Providers
	switch cfg.Analysis.Provider {
	case providersFactory.ProviderOpenAI:
		providerConfig.Credentials = providers.Credentials{ApiKey: p.OpenAI.APIKey, BaseURL: p.OpenAI.BaseURL}
		providerConfig.Options = p.OpenAI.Options
	case providersFactory.ProviderAnthropic:
		providerConfig.Credentials = providers.Credentials{ApiKey: p.Anthropic.APIKey, BaseURL: p.Anthropic.BaseURL}
		providerConfig.Options = p.Anthropic.Options
	case providersFactory.ProviderGoogle:
		providerConfig.Credentials = providers.Credentials{ApiKey: p.Google.APIKey, BaseURL: p.Google.BaseURL}
		providerConfig.Options = p.Google.Options
	case providersFactory.ProviderAzure:
		providerConfig.Credentials = providers.Credentials{
			ApiKey: p.Azure.APIKey,
			Azure: &providers.AzureCredentials{
				Endpoint:    p.Azure.Endpoint,
				ApiVersion:  p.Azure.APIVersion,
				UseIdentity: p.Azure.UseIdentity,
			},
		}
	case providersFactory.ProviderBedrock:
		providerConfig.Credentials = providers.Credentials{
			AwsBedrock: &providers.AwsBedrockCredentials{
				Region:       p.Bedrock.Region,
				AccessKey:    p.Bedrock.AccessKey,
				SecretKey:    p.Bedrock.SecretKey,
				SessionToken: p.Bedrock.SessionToken,
				RoleARN:      p.Bedrock.RoleARN,
			},
		}
	}

	cacheTTL := time.Duration(0)
	if cfg.Cache.Enabled {
		cacheTTL = cfg.Cache.TTL
	}

	return appAnalysis.Settings{
		Provider:        cfg.Analysis.Provider,
		ProviderConfig:  providerConfig,
		Timeout:         cfg.Analysis.Timeout,
		IncludeMetadata: cfg.Analysis.IncludeMetadata,
		CacheTTL:        cacheTTL,
	}
}

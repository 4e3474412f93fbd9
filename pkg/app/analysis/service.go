package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/infra/cache"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/infra/imagemeta"
	"github.com/NeuralTrust/SportLens/pkg/infra/metrics"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/factory"
	"github.com/NeuralTrust/SportLens/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 60 * time.Second

type Request struct {
	Image     []byte
	FileName  string
	Context   string
	RequestID string
	Client    *utils.UserAgentInfo
}

type Result struct {
	ID       uuid.UUID           `json:"id"`
	Response string              `json:"response"`
	Provider string              `json:"provider"`
	Model    string              `json:"model"`
	Usage    providers.Usage     `json:"usage"`
	Metadata *imagemeta.Metadata `json:"metadata,omitempty"`
	Cached   bool                `json:"-"`
}

// Settings selects the provider and shapes each call.
type Settings struct {
	Provider        string
	ProviderConfig  providers.Config
	Timeout         time.Duration
	IncludeMetadata bool
	CacheTTL        time.Duration
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=analysis_service_mock.go --case=underscore --with-expecter
type Service interface {
	Analyze(ctx context.Context, req *Request) (*Result, error)
}

type service struct {
	logger   *logrus.Logger
	locator  factory.ProviderLocator
	breaker  httpx.CircuitBreaker
	cache    cache.Client
	repo     analysis.Repository
	worker   metrics.Worker
	settings Settings
	group    singleflight.Group
}

// NewService wires the analysis pipeline. cacheClient, repo and worker may be
// nil; the matching step is then skipped.
func NewService(
	logger *logrus.Logger,
	locator factory.ProviderLocator,
	breaker httpx.CircuitBreaker,
	cacheClient cache.Client,
	repo analysis.Repository,
	worker metrics.Worker,
	settings Settings,
) Service {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = common.AnalysisCacheTTL
	}
	return &service{
		logger:   logger,
		locator:  locator,
		breaker:  breaker,
		cache:    cacheClient,
		repo:     repo,
		worker:   worker,
		settings: settings,
	}
}

func (s *service) Analyze(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || len(req.Image) == 0 {
		return nil, ErrEmptyImage
	}

	md, err := imagemeta.Extract(req.Image)
	if err != nil {
		if errors.Is(err, imagemeta.ErrUnsupportedMediaType) {
			return nil, err
		}
		s.logger.WithError(err).WithField("file", req.FileName).Warn("failed to read image metadata")
	}

	key := s.cacheKey(req)
	if cached := s.fromCache(ctx, key); cached != nil {
		s.publish(req, cached, 0, nil)
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		flight, err := s.callProvider(ctx, req, md)
		if err != nil {
			return nil, err
		}
		storeCtx := context.WithoutCancel(ctx)
		s.toCache(storeCtx, key, flight.result)
		s.persist(storeCtx, req, flight.result, flight.latency)
		return flight, nil
	})
	if err != nil {
		s.publish(req, nil, 0, err)
		return nil, err
	}
	flight := v.(*providerResult)
	res := *flight.result
	s.publish(req, &res, flight.latency, nil)
	return &res, nil
}

type providerResult struct {
	result  *Result
	latency time.Duration
}

func (s *service) callProvider(ctx context.Context, req *Request, md *imagemeta.Metadata) (*providerResult, error) {
	client, err := s.locator.Get(s.settings.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	input := &providers.ImageInput{
		Data:     req.Image,
		FileName: req.FileName,
		Context:  req.Context,
	}
	if md != nil {
		input.MediaType = md.MediaType
		if s.settings.IncludeMetadata {
			if block := md.PromptBlock(); block != "" {
				input.Context = block + "\n" + req.Context
			}
		}
	}

	// Detached so one caller leaving does not cancel a shared flight.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.Timeout)
	defer cancel()

	cfg := s.settings.ProviderConfig
	var resp *providers.AnalysisResponse
	start := time.Now()
	err = s.breaker.Execute(func() error {
		var callErr error
		resp, callErr = client.Analyze(callCtx, &cfg, input)
		return callErr
	})
	latency := time.Since(start)
	if err != nil {
		if httpx.IsOpen(err) {
			return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		return nil, fmt.Errorf("provider %s: %w", s.settings.Provider, err)
	}

	model := resp.Model
	if model == "" {
		model = cfg.Model
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &providerResult{
		result: &Result{
			ID:       id,
			Response: resp.Response,
			Provider: s.settings.Provider,
			Model:    model,
			Usage:    resp.Usage,
			Metadata: md,
		},
		latency: latency,
	}, nil
}

// cacheKey covers everything that changes the answer.
func (s *service) cacheKey(req *Request) string {
	h := sha256.New()
	h.Write([]byte(s.settings.Provider))
	h.Write([]byte{'|'})
	h.Write([]byte(s.settings.ProviderConfig.Model))
	h.Write([]byte{'|'})
	h.Write([]byte(req.Context))
	h.Write([]byte{'|'})
	h.Write(req.Image)
	return cache.AnalysisKey(hex.EncodeToString(h.Sum(nil)))
}

func (s *service) fromCache(ctx context.Context, key string) *Result {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("failed to read analysis cache")
		}
		return nil
	}
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		s.logger.WithError(err).Warn("invalid analysis cache entry")
		return nil
	}
	res.Cached = true
	return &res
}

func (s *service) toCache(ctx context.Context, key string, res *Result) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode analysis cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.settings.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("failed to write analysis cache")
	}
}

func (s *service) persist(ctx context.Context, req *Request, res *Result, latency time.Duration) {
	if s.repo == nil {
		return
	}
	record := &analysis.Analysis{
		ID:               res.ID,
		Provider:         res.Provider,
		Model:            res.Model,
		Context:          req.Context,
		ImageSHA256:      imageDigest(req.Image),
		ImageSize:        len(req.Image),
		Response:         res.Response,
		PromptTokens:     res.Usage.PromptTokens,
		CompletionTokens: res.Usage.CompletionTokens,
		TotalTokens:      res.Usage.TotalTokens,
		LatencyMs:        latency.Milliseconds(),
	}
	if res.Metadata != nil {
		record.MediaType = res.Metadata.MediaType
		record.ExifTags = pq.StringArray(res.Metadata.TagList())
	}
	if req.Client != nil {
		record.ClientDevice = req.Client.Device
		record.ClientOS = req.Client.OS
		record.ClientBrowser = req.Client.Browser
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WithError(err).WithField("analysis_id", res.ID).Error("failed to save analysis")
	}
}

func (s *service) publish(req *Request, res *Result, latency time.Duration, err error) {
	if s.worker == nil {
		return
	}
	evt := &telemetry.Event{
		Type:        telemetry.EventAnalysisCompleted,
		RequestID:   req.RequestID,
		Provider:    s.settings.Provider,
		Model:       s.settings.ProviderConfig.Model,
		ImageSHA256: imageDigest(req.Image),
		ImageSize:   len(req.Image),
		Latency:     latency.Milliseconds(),
		Timestamp:   time.Now().UnixMilli(),
	}
	if req.Client != nil {
		evt.Device = req.Client.Device
		evt.Os = req.Client.OS
		evt.Browser = req.Client.Browser
	}
	if err != nil {
		evt.Type = telemetry.EventAnalysisFailed
		evt.Error = err.Error()
	}
	if res != nil {
		evt.AnalysisID = res.ID.String()
		evt.Model = res.Model
		evt.Cached = res.Cached
		evt.PromptTokens = res.Usage.PromptTokens
		evt.CompletionTokens = res.Usage.CompletionTokens
		evt.TotalTokens = res.Usage.TotalTokens
		if res.Metadata != nil {
			evt.MediaType = res.Metadata.MediaType
			evt.ExifTags = res.Metadata.TagList()
		}
	}
	s.worker.Process(evt)
}

func imageDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

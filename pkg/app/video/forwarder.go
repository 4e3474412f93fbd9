package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/infra/metrics"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

var (
	ErrEmptyVideo             = errors.New("video is empty")
	ErrBackendUnavailable     = errors.New("video backend unavailable")
	ErrInvalidBackendResponse = errors.New("video backend answered with invalid JSON")
	ErrBackendRequestFailed   = errors.New("video backend request failed")
)

const (
	defaultForwardTimeout     = 120 * time.Second
	acceptedResponseEncodings = "br, gzip, zstd, deflate"
	defaultVideoContentType   = "application/octet-stream"
)

type Input struct {
	FileName    string
	ContentType string
	Data        []byte
	RequestID   string
}

//go:generate mockery --name=Forwarder --dir=. --output=./mocks --filename=video_forwarder_mock.go --case=underscore --with-expecter
type Forwarder interface {
	Forward(ctx context.Context, in *Input) ([]byte, error)
}

type forwarder struct {
	logger     *logrus.Logger
	client     httpx.Client
	breaker    httpx.CircuitBreaker
	worker     metrics.Worker
	backendURL string
	timeout    time.Duration
	parsers    fastjson.ParserPool
}

func NewForwarder(
	logger *logrus.Logger,
	client httpx.Client,
	breaker httpx.CircuitBreaker,
	worker metrics.Worker,
	backendURL string,
	timeout time.Duration,
) Forwarder {
	if timeout <= 0 {
		timeout = defaultForwardTimeout
	}
	return &forwarder{
		logger:     logger,
		client:     client,
		breaker:    breaker,
		worker:     worker,
		backendURL: backendURL,
		timeout:    timeout,
	}
}

// Forward re-posts the upload as a single "video" part and returns the
// backend's JSON body unchanged.
func (f *forwarder) Forward(ctx context.Context, in *Input) ([]byte, error) {
	if in == nil || len(in.Data) == 0 {
		return nil, ErrEmptyVideo
	}
	start := time.Now()

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultVideoContentType
	}
	body, formContentType, err := httpx.BuildMultipart([]httpx.FilePart{{
		FieldName:   common.VideoFormField,
		FileName:    in.FileName,
		ContentType: contentType,
		Data:        in.Data,
	}}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var payload []byte
	err = f.breaker.Execute(func() error {
		var sendErr error
		payload, sendErr = f.send(ctx, body, formContentType, in.RequestID)
		return sendErr
	})
	f.publish(in, time.Since(start), err)
	if err != nil {
		if httpx.IsOpen(err) {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return nil, err
	}
	return payload, nil
}

func (f *forwarder) send(ctx context.Context, body []byte, contentType, requestID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.backendURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptedResponseEncodings)
	if requestID != "" {
		req.Header.Set(common.RequestIDHeader, requestID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	decoded, _, err := httpx.DecodeChain(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	p := f.parsers.Get()
	defer f.parsers.Put(p)
	if _, err := p.ParseBytes(decoded); err != nil {
		f.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"bytes":  len(decoded),
		}).Warn("video backend returned a non-JSON body")
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackendResponse, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.WithField("status", resp.StatusCode).Warn("video backend answered with an error status, relaying body")
	}
	return decoded, nil
}

func (f *forwarder) publish(in *Input, latency time.Duration, err error) {
	if f.worker == nil {
		return
	}
	evt := &telemetry.Event{
		Type:      telemetry.EventVideoForwarded,
		RequestID: in.RequestID,
		MediaType: in.ContentType,
		ImageSize: len(in.Data),
		Latency:   latency.Milliseconds(),
		Timestamp: time.Now().UnixMilli(),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	f.worker.Process(evt)
}

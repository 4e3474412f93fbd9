package video

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	httpMocks "github.com/NeuralTrust/SportLens/pkg/infra/httpx/mocks"
	workerMocks "github.com/NeuralTrust/SportLens/pkg/infra/metrics/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const backendURL = "http://video-backend:8080/analyze"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func jsonResponse(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func newForwarder(client httpx.Client, breaker httpx.CircuitBreaker, worker *workerMocks.Worker) Forwarder {
	if breaker == nil {
		breaker = httpx.NewCircuitBreaker("video", time.Minute, 5)
	}
	if worker == nil {
		return NewForwarder(quietLogger(), client, breaker, nil, backendURL, time.Second)
	}
	return NewForwarder(quietLogger(), client, breaker, worker, backendURL, time.Second)
}

func TestForward_SendsSingleVideoPartUnchanged(t *testing.T) {
	video := []byte("\x00\x00\x00\x18ftypmp42 fake video bytes")
	backendJSON := []byte(`{"frames":12,"summary":"good follow-through"}`)

	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, backendURL, req.URL.String())
		assert.Equal(t, "req-42", req.Header.Get("X-Request-Id"))

		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		reader := multipart.NewReader(req.Body, params["boundary"])
		part, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "video", part.FormName())
		assert.Equal(t, "rally.mp4", part.FileName())
		assert.Equal(t, "video/mp4", part.Header.Get("Content-Type"))
		got, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, video, got)

		_, err = reader.NextPart()
		assert.ErrorIs(t, err, io.EOF)

		return jsonResponse(http.StatusOK, backendJSON, nil), nil
	})

	worker := &workerMocks.Worker{}
	worker.On("Process", mock.MatchedBy(func(evt *telemetry.Event) bool {
		return evt.Type == telemetry.EventVideoForwarded && evt.Error == "" && evt.RequestID == "req-42"
	})).Return()

	out, err := newForwarder(client, nil, worker).Forward(context.Background(), &Input{
		FileName:    "rally.mp4",
		ContentType: "video/mp4",
		Data:        video,
		RequestID:   "req-42",
	})
	require.NoError(t, err)
	assert.Equal(t, backendJSON, out)
	client.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestForward_DecodesCompressedAnswer(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"ok":true}`))
	require.NoError(t, zw.Close())

	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, buf.Bytes(), http.Header{"Content-Encoding": {"gzip"}}), nil)

	out, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "a.mov", Data: []byte("v")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
}

func TestForward_RelaysErrorStatusWithJSONBody(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusUnprocessableEntity, []byte(`{"detail":"too short"}`), nil), nil)

	out, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":"too short"}`, string(out))
}

func TestForward_NonJSONAnswer(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusBadGateway, []byte("<html>bad gateway</html>"), nil), nil)

	worker := &workerMocks.Worker{}
	worker.On("Process", mock.MatchedBy(func(evt *telemetry.Event) bool { return evt.Error != "" })).Return()

	_, err := newForwarder(client, nil, worker).Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	assert.ErrorIs(t, err, ErrInvalidBackendResponse)
	worker.AssertExpectations(t)
}

func TestForward_NetworkError(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	assert.ErrorIs(t, err, ErrBackendRequestFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestForward_UnsupportedEncoding(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, []byte("xx"), http.Header{"Content-Encoding": {"compress"}}), nil)

	_, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response body")
}

func TestForward_BreakerOpens(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(nil, errors.New("boom")).Once()

	f := newForwarder(client, httpx.NewCircuitBreaker("video", time.Minute, 1), nil)
	_, err := f.Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	require.Error(t, err)

	_, err = f.Forward(context.Background(), &Input{FileName: "a.mp4", Data: []byte("v")})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	client.AssertNumberOfCalls(t, "Do", 1)
}

func TestForward_EmptyVideo(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	_, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "a.mp4"})
	assert.ErrorIs(t, err, ErrEmptyVideo)
	client.AssertNotCalled(t, "Do", mock.Anything)
}

func TestForward_DefaultsContentType(t *testing.T) {
	client := &httpMocks.MockHTTPClient{}
	client.On("Do", mock.Anything).Return(func(req *http.Request) (*http.Response, error) {
		_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		require.NoError(t, err)
		part, err := multipart.NewReader(req.Body, params["boundary"]).NextPart()
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))
		return jsonResponse(http.StatusOK, []byte(`[]`), nil), nil
	})

	_, err := newForwarder(client, nil, nil).Forward(context.Background(), &Input{FileName: "clip", Data: []byte("v")})
	require.NoError(t, err)
}

package metrics

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry/mocks"
	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestWorker_ExportsAndRecords(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	exporter := &mocks.Exporter{}
	exporter.On("Handle", mock.Anything, mock.MatchedBy(func(evt *telemetry.Event) bool {
		return evt.AnalysisID == "a-1"
	})).Run(func(args mock.Arguments) { wg.Done() }).Return(nil)
	exporter.On("Close").Return()

	before := testutil.ToFloat64(prometheus.AnalysesTotal.WithLabelValues("anthropic", "success"))

	w := NewWorker(quietLogger(), []telemetry.Exporter{exporter})
	w.StartWorkers(2)
	w.Process(&telemetry.Event{
		Type:       telemetry.EventAnalysisCompleted,
		AnalysisID: "a-1",
		Provider:   "anthropic",
		Model:      "claude-sonnet-4-5",
		Latency:    1200,
	})

	waitTimeout(t, &wg)
	w.Shutdown()

	assert.Equal(t, before+1, testutil.ToFloat64(prometheus.AnalysesTotal.WithLabelValues("anthropic", "success")))
	exporter.AssertCalled(t, "Close")
}

func TestWorker_ExporterFailureIsLogged(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	exporter := &mocks.Exporter{}
	exporter.On("Name").Return("kafka")
	exporter.On("Handle", mock.Anything, mock.Anything).Run(func(args mock.Arguments) { wg.Done() }).Return(errors.New("broker down"))
	exporter.On("Close").Return()

	w := NewWorker(quietLogger(), []telemetry.Exporter{exporter})
	w.StartWorkers(1)
	w.Process(&telemetry.Event{Type: telemetry.EventAnalysisFailed, Provider: "openai"})

	waitTimeout(t, &wg)
	assert.NotPanics(t, w.Shutdown)
}

func TestWorker_ProcessAfterShutdown(t *testing.T) {
	w := NewWorker(quietLogger(), nil)
	w.StartWorkers(1)
	w.Shutdown()
	w.Shutdown()

	assert.NotPanics(t, func() {
		w.Process(&telemetry.Event{Type: telemetry.EventVideoForwarded})
		w.Process(nil)
	})
}

func waitTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker")
	}
}

package metrics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	exportTimeout = 10 * time.Second
	queueSize     = 1000
)

//go:generate mockery --name=Worker --dir=. --output=./mocks --filename=worker_mock.go --case=underscore --with-expecter
type Worker interface {
	StartWorkers(n int)
	Process(evt *telemetry.Event)
	Shutdown()
}

type worker struct {
	logger    *logrus.Logger
	exporters []telemetry.Exporter
	taskChan  chan func()
	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	wg        sync.WaitGroup
}

// NewWorker fans analysis events out to Prometheus and the exporters on a
// small pool of goroutines. Events are dropped when the queue is full.
func NewWorker(logger *logrus.Logger, exporters []telemetry.Exporter) Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &worker{
		logger:    logger,
		exporters: exporters,
		taskChan:  make(chan func(), queueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *worker) StartWorkers(n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case task, ok := <-m.taskChan:
					if !ok {
						return
					}
					task()
				case <-m.ctx.Done():
					return
				}
			}
		}()
	}
}

func (m *worker) Process(evt *telemetry.Event) {
	if evt == nil {
		return
	}
	m.enqueueTask(func() {
		m.registryMetricsToPrometheus(evt)
	}, evt)
	if len(m.exporters) > 0 {
		m.enqueueTask(func() {
			m.registryMetricsToExporters(evt)
		}, evt)
	}
}

// Shutdown drains queued tasks, then closes the exporters.
func (m *worker) Shutdown() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	m.logger.Info("shutting down metrics workers")
	close(m.taskChan)
	m.wg.Wait()
	m.cancel()
	for _, exp := range m.exporters {
		exp.Close()
	}
	m.logger.Info("metrics workers stopped")
}

func (m *worker) registryMetricsToPrometheus(evt *telemetry.Event) {
	if !prometheus.Config.EnableUpstream {
		return
	}
	switch evt.Type {
	case telemetry.EventAnalysisCompleted:
		status := "success"
		if evt.Cached {
			status = "cached"
		}
		prometheus.AnalysesTotal.WithLabelValues(evt.Provider, status).Inc()
		if !evt.Cached {
			prometheus.ProviderLatency.WithLabelValues(evt.Provider, evt.Model).Observe(float64(evt.Latency))
		}
	case telemetry.EventAnalysisFailed:
		prometheus.AnalysesTotal.WithLabelValues(evt.Provider, "error").Inc()
	case telemetry.EventVideoForwarded:
		status := "success"
		if evt.Error != "" {
			status = "error"
		}
		prometheus.VideoForwardsTotal.WithLabelValues(status).Inc()
	}
}

func (m *worker) registryMetricsToExporters(evt *telemetry.Event) {
	ctx, cancel := context.WithTimeout(m.ctx, exportTimeout)
	defer cancel()

	var failedExporters []string
	for _, exporter := range m.exporters {
		if err := exporter.Handle(ctx, evt); err != nil {
			m.logger.WithFields(logrus.Fields{
				"exporter": exporter.Name(),
				"event":    evt.Type,
			}).WithError(err).Error("exporter failed")
			failedExporters = append(failedExporters, fmt.Sprintf("%T", exporter))
		}
	}
	if len(failedExporters) > 0 {
		m.logger.WithField("failedExporters", failedExporters).
			Warnf("%d exporters failed to handle event", len(failedExporters))
	}
}

func (m *worker) enqueueTask(task func(), evt *telemetry.Event) {
	if m.closed.Load() {
		return
	}
	defer func() {
		// Shutdown may close the channel between the check and the send.
		_ = recover()
	}()
	select {
	case m.taskChan <- task:
	default:
		m.logger.WithField("event", evt.Type).Warn("taskChan is full, dropping metrics task")
	}
}

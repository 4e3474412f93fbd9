package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnalysesTotal(t *testing.T) {
	before := testutil.ToFloat64(AnalysesTotal.WithLabelValues("openai", "success"))
	AnalysesTotal.WithLabelValues("openai", "success").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AnalysesTotal.WithLabelValues("openai", "success")))
}

func TestGatherer_ExposesSportLensSeries(t *testing.T) {
	VideoForwardsTotal.WithLabelValues("success").Inc()

	families, err := Gatherer().Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["sportlens_video_forwards_total"])
}

func TestInitialize_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Initialize(MetricsConfig{EnableLatency: false, EnableUpstream: true})
		Initialize(DefaultMetricsConfig())
	})
	assert.True(t, Config.EnableLatency)
}

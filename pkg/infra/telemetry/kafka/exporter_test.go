package kafka

import (
	"context"
	"testing"

	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_ValidateConfig(t *testing.T) {
	exp := NewKafkaExporter()
	assert.Equal(t, "kafka", exp.Name())

	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  string
	}{
		{name: "valid", settings: map[string]interface{}{"host": "localhost", "port": "9092", "topic": "sportlens.analyses"}},
		{name: "numeric port", settings: map[string]interface{}{"host": "localhost", "port": 9092, "topic": "sportlens.analyses"}},
		{name: "missing host", settings: map[string]interface{}{"port": "9092", "topic": "t"}, wantErr: "kafka host is required"},
		{name: "missing port", settings: map[string]interface{}{"host": "h", "topic": "t"}, wantErr: "kafka port is required"},
		{name: "missing topic", settings: map[string]interface{}{"host": "h", "port": "9092"}, wantErr: "kafka topic is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exp.ValidateConfig(tt.settings)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExporter_HandleWithoutProducer(t *testing.T) {
	err := NewKafkaExporter().Handle(context.Background(), &telemetry.Event{Type: telemetry.EventAnalysisCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestExporter_CloseWithoutProducer(t *testing.T) {
	assert.NotPanics(t, func() { NewKafkaExporter().Close() })
}

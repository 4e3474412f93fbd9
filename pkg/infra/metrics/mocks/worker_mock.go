package mocks

import (
	"github.com/NeuralTrust/SportLens/pkg/domain/telemetry"
	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) StartWorkers(n int) {
	m.Called(n)
}

func (m *Worker) Process(evt *telemetry.Event) {
	m.Called(evt)
}

func (m *Worker) Shutdown() {
	m.Called()
}

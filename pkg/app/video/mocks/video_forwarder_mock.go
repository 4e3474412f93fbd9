package mocks

import (
	"context"

	"github.com/NeuralTrust/SportLens/pkg/app/video"
	"github.com/stretchr/testify/mock"
)

type Forwarder struct {
	mock.Mock
}

func (m *Forwarder) Forward(ctx context.Context, in *video.Input) ([]byte, error) {
	args := m.Called(ctx, in)
	var body []byte
	if v := args.Get(0); v != nil {
		body = v.([]byte)
	}
	return body, args.Error(1)
}

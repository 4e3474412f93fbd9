package mocks

import (
	"context"

	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Analyze(ctx context.Context, config *providers.Config, input *providers.ImageInput) (*providers.AnalysisResponse, error) {
	args := m.Called(ctx, config, input)
	if fn, ok := args.Get(0).(func(context.Context, *providers.Config, *providers.ImageInput) (*providers.AnalysisResponse, error)); ok {
		return fn(ctx, config, input)
	}
	var resp *providers.AnalysisResponse
	if v := args.Get(0); v != nil {
		resp = v.(*providers.AnalysisResponse)
	}
	return resp, args.Error(1)
}

package mocks

import (
	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type ProviderLocator struct {
	mock.Mock
}

func (m *ProviderLocator) Get(provider string) (providers.Client, error) {
	args := m.Called(provider)
	var client providers.Client
	if v := args.Get(0); v != nil {
		client = v.(providers.Client)
	}
	return client, args.Error(1)
}

package factory

import (
	"fmt"

	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/anthropic"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/azure"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/bedrock"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/gemini"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderAzure     = "azure"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

// Clients hold pooled SDK clients, so each provider is built once.
type providerLocator struct {
	clients map[string]providers.Client
}

func NewProviderLocator(httpClient httpx.Client) ProviderLocator {
	return &providerLocator{
		clients: map[string]providers.Client{
			ProviderOpenAI:    openai.NewOpenaiClient(),
			ProviderGoogle:    gemini.NewGeminiClient(),
			ProviderAnthropic: anthropic.NewAnthropicClient(),
			ProviderBedrock:   bedrock.NewBedrockClient(),
			ProviderAzure:     azure.NewAzureClient(httpClient),
		},
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	client, ok := f.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", providers.ErrUnsupportedProvider, provider)
	}
	return client, nil
}

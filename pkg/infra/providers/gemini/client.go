package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"
)

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
}

func NewGeminiClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Analyze(
	ctx context.Context,
	config *providers.Config,
	input *providers.ImageInput,
) (*providers.AnalysisResponse, error) {
	if err := providers.Validate(config, input, true); err != nil {
		return nil, err
	}

	genaiClient, err := c.getOrCreateClient(ctx, config.Credentials.ApiKey, config.Credentials.BaseURL)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(input.Data, input.MediaTypeOrDefault()),
			genai.NewPartFromText(providers.UserPrompt(config, input)),
		}, genai.RoleUser),
	}

	generateConfig := &genai.GenerateContentConfig{}
	if config.SystemPrompt != "" {
		generateConfig.SystemInstruction = genai.NewContentFromText(config.SystemPrompt, genai.RoleUser)
	}
	if config.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(config.MaxTokens)
	}
	if config.Temperature > 0 {
		temperature := float32(config.Temperature)
		generateConfig.Temperature = &temperature
	}

	result, err := genaiClient.Models.GenerateContent(ctx, config.Model, contents, generateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := strings.TrimSpace(result.Text())
	if responseText == "" {
		return nil, providers.ErrNoCompletion
	}

	resp := &providers.AnalysisResponse{
		ID:       result.ResponseID,
		Model:    config.Model,
		Response: responseText,
	}
	if result.UsageMetadata != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (c *client) getOrCreateClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	key := apiKey + "|" + baseURL
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(*genai.Client); ok {
			return cli, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok := c.clientPool.Load(key); ok {
			return v2, nil
		}
		cfg := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		cli, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		c.clientPool.Store(key, cli)
		return cli, nil
	})
	if err != nil {
		return nil, err
	}
	cli, ok := v.(*genai.Client)
	if !ok {
		return nil, fmt.Errorf("invalid client type in pool")
	}
	return cli, nil
}

package anthropic

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 500

type client struct {
	clientPool *sync.Map
}

func NewAnthropicClient() providers.Client {
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

	anthropicClient := c.getOrCreateClient(config.Credentials.ApiKey, config.Credentials.BaseURL)

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(config.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(input.MediaTypeOrDefault(), input.Base64()),
				anthropic.NewTextBlock(providers.UserPrompt(config, input)),
			),
		},
	}
	if config.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: config.SystemPrompt}}
	}
	if config.Temperature > 0 {
		params.Temperature = anthropic.Float(config.Temperature)
	}

	message, err := anthropicClient.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText = content.Text
			break
		}
	}
	if responseText == "" {
		return nil, providers.ErrNoCompletion
	}

	return &providers.AnalysisResponse{
		ID:       message.ID,
		Model:    string(message.Model),
		Response: responseText,
		Usage: providers.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}

func (c *client) getOrCreateClient(apiKey, baseURL string) *anthropic.Client {
	key := apiKey + "|" + baseURL
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(*anthropic.Client); ok {
			return cli
		}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := anthropic.NewClient(opts...)
	actual, _ := c.clientPool.LoadOrStore(key, &cli)
	if stored, ok := actual.(*anthropic.Client); ok {
		return stored
	}
	return &cli
}

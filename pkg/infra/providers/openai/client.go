package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/sync/singleflight"
)

const (
	DetailAuto = "auto"
	DetailLow  = "low"
	DetailHigh = "high"
)

type openaiOptions struct {
	Detail     string `mapstructure:"detail"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
}

func NewOpenaiClient() providers.Client {
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

	options, err := decodeOptions(config.Options)
	if err != nil {
		return nil, err
	}

	openaiClient := c.getOrCreateClient(config.Credentials.ApiKey, config.Credentials.BaseURL, options.MaxRetries)

	var messages []openai.ChatCompletionMessageParamUnion
	if config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(config.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(providers.UserPrompt(config, input)),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    input.DataURL(),
			Detail: options.Detail,
		}),
	}))

	params := openai.ChatCompletionNewParams{
		Model:    config.Model,
		Messages: messages,
	}
	if config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(config.MaxTokens))
	}
	if config.Temperature > 0 {
		params.Temperature = openai.Float(config.Temperature)
	}

	resp, err := openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, providers.ErrNoCompletion
	}

	return &providers.AnalysisResponse{
		ID:       resp.ID,
		Model:    resp.Model,
		Response: resp.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func decodeOptions(raw map[string]interface{}) (openaiOptions, error) {
	options := openaiOptions{Detail: DetailAuto, MaxRetries: -1}
	if len(raw) == 0 {
		return options, nil
	}
	if err := mapstructure.WeakDecode(raw, &options); err != nil {
		return options, fmt.Errorf("invalid openai options: %w", err)
	}
	switch options.Detail {
	case DetailAuto, DetailLow, DetailHigh:
	case "":
		options.Detail = DetailAuto
	default:
		return options, fmt.Errorf("invalid openai options: unknown detail %q", options.Detail)
	}
	return options, nil
}

func (c *client) getOrCreateClient(apiKey, baseURL string, maxRetries int) *openai.Client {
	key := fmt.Sprintf("%s|%s|%d", apiKey, baseURL, maxRetries)
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(*openai.Client); ok {
			return cli
		}
	}
	v, _, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok := c.clientPool.Load(key); ok {
			return v2, nil
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		if maxRetries >= 0 {
			opts = append(opts, option.WithMaxRetries(maxRetries))
		}
		cli := openai.NewClient(opts...)
		c.clientPool.Store(key, &cli)
		return &cli, nil
	})
	if cli, ok := v.(*openai.Client); ok {
		return cli
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &cli
}

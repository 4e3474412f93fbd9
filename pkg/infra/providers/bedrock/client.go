package bedrock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	stsTypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRegion      = "us-east-1"
	defaultSessionName = "SportLensBedrockSession"
)

// ConverseAPI is the slice of the bedrockruntime client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ConverseFactory func(ctx context.Context, creds *providers.AwsBedrockCredentials) (ConverseAPI, error)

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
	newClient  ConverseFactory
}

func NewBedrockClient() providers.Client {
	return NewBedrockClientWithFactory(defaultFactory)
}

func NewBedrockClientWithFactory(factory ConverseFactory) providers.Client {
	return &client{
		clientPool: &sync.Map{},
		newClient:  factory,
	}
}

func (c *client) Analyze(
	ctx context.Context,
	cfg *providers.Config,
	input *providers.ImageInput,
) (*providers.AnalysisResponse, error) {
	if cfg.Credentials.AwsBedrock == nil {
		return nil, fmt.Errorf("aws credentials are required")
	}
	if err := providers.Validate(cfg, input, false); err != nil {
		return nil, err
	}

	format, err := imageFormat(input.MediaTypeOrDefault())
	if err != nil {
		return nil, err
	}

	runtime, err := c.getOrCreateClient(ctx, cfg.Credentials.AwsBedrock)
	if err != nil {
		return nil, err
	}

	converseInput := &bedrockruntime.ConverseInput{
		ModelId: aws.String(cfg.Model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberImage{
						Value: types.ImageBlock{
							Format: format,
							Source: &types.ImageSourceMemberBytes{Value: input.Data},
						},
					},
					&types.ContentBlockMemberText{Value: providers.UserPrompt(cfg, input)},
				},
			},
		},
	}
	if cfg.SystemPrompt != "" {
		converseInput.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: cfg.SystemPrompt},
		}
	}
	if cfg.MaxTokens > 0 || cfg.Temperature > 0 {
		inference := &types.InferenceConfiguration{}
		if cfg.MaxTokens > 0 {
			inference.MaxTokens = aws.Int32(int32(cfg.MaxTokens))
		}
		if cfg.Temperature > 0 {
			inference.Temperature = aws.Float32(float32(cfg.Temperature))
		}
		converseInput.InferenceConfig = inference
	}

	out, err := runtime.Converse(ctx, converseInput)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, providers.ErrNoCompletion
	}
	var text strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}
	if text.Len() == 0 {
		return nil, providers.ErrNoCompletion
	}

	resp := &providers.AnalysisResponse{
		Model:    cfg.Model,
		Response: text.String(),
	}
	if out.Usage != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(aws.ToInt32(out.Usage.InputTokens)),
			CompletionTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return resp, nil
}

func imageFormat(mediaType string) (types.ImageFormat, error) {
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return types.ImageFormatJpeg, nil
	case "image/png":
		return types.ImageFormatPng, nil
	case "image/gif":
		return types.ImageFormatGif, nil
	case "image/webp":
		return types.ImageFormatWebp, nil
	default:
		return "", fmt.Errorf("bedrock: unsupported image type %s", mediaType)
	}
}

func (c *client) getOrCreateClient(ctx context.Context, creds *providers.AwsBedrockCredentials) (ConverseAPI, error) {
	key := buildClientKey(creds)
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(ConverseAPI); ok {
			return cli, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok := c.clientPool.Load(key); ok {
			return v2, nil
		}
		cli, err := c.newClient(ctx, creds)
		if err != nil {
			return nil, err
		}
		c.clientPool.Store(key, cli)
		return cli, nil
	})
	if err != nil {
		return nil, err
	}
	cli, ok := v.(ConverseAPI)
	if !ok {
		return nil, fmt.Errorf("invalid client type in pool")
	}
	return cli, nil
}

func buildClientKey(creds *providers.AwsBedrockCredentials) string {
	return fmt.Sprintf("%s:%s:%s", creds.AccessKey, creds.Region, creds.RoleARN)
}

func defaultFactory(ctx context.Context, creds *providers.AwsBedrockCredentials) (ConverseAPI, error) {
	cfg, err := buildAwsConfig(ctx, creds)
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(cfg), nil
}

func buildAwsConfig(ctx context.Context, creds *providers.AwsBedrockCredentials) (aws.Config, error) {
	region := creds.Region
	if region == "" {
		region = defaultRegion
	}

	if creds.RoleARN != "" {
		assumed, err := assumeRole(ctx, creds.AccessKey, creds.SecretKey, creds.RoleARN, region)
		if err != nil {
			return aws.Config{}, err
		}
		return loadAWSConfig(ctx, aws.ToString(assumed.AccessKeyId), aws.ToString(assumed.SecretAccessKey), aws.ToString(assumed.SessionToken), region)
	}
	if creds.AccessKey == "" {
		// Fall back to the default chain: env, shared config, instance role.
		return config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}
	return loadAWSConfig(ctx, creds.AccessKey, creds.SecretKey, creds.SessionToken, region)
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)),
		config.WithRegion(region),
	)
}

func assumeRole(ctx context.Context, accessKey, secretKey, roleARN, region string) (*stsTypes.Credentials, error) {
	var (
		baseCfg aws.Config
		err     error
	)
	if accessKey != "" {
		baseCfg, err = loadAWSConfig(ctx, accessKey, secretKey, "", region)
	} else {
		baseCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load base AWS config: %w", err)
	}

	output, err := sts.NewFromConfig(baseCfg).AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(defaultSessionName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assume role: %w", err)
	}
	return output.Credentials, nil
}

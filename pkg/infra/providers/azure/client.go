package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/infra/providers"
)

const (
	defaultAPIVersion = "2024-02-15-preview"
	cognitiveScope    = "https://cognitiveservices.azure.com/.default"
)

type TokenSource func(ctx context.Context) (string, error)

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage providers.Usage `json:"usage"`
}

type client struct {
	httpClient  httpx.Client
	tokenSource TokenSource
	credOnce    sync.Once
	cred        *azidentity.DefaultAzureCredential
	credErr     error
}

// NewAzureClient calls Azure OpenAI deployments over REST. Authentication
// is the api-key header, or an Entra ID token when UseIdentity is set.
func NewAzureClient(httpClient httpx.Client) providers.Client {
	c := &client{httpClient: httpClient}
	c.tokenSource = c.defaultToken
	return c
}

func NewAzureClientWithTokenSource(httpClient httpx.Client, tokenSource TokenSource) providers.Client {
	return &client{httpClient: httpClient, tokenSource: tokenSource}
}

func (c *client) Analyze(
	ctx context.Context,
	config *providers.Config,
	input *providers.ImageInput,
) (*providers.AnalysisResponse, error) {
	azureCfg := config.Credentials.Azure
	if azureCfg == nil || azureCfg.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if err := providers.Validate(config, input, !azureCfg.UseIdentity); err != nil {
		return nil, err
	}

	var messages []chatMessage
	if config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: config.SystemPrompt})
	}
	messages = append(messages, chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: providers.UserPrompt(config, input)},
			{Type: "image_url", ImageURL: &imageURL{URL: input.DataURL()}},
		},
	})

	bodyBytes, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	apiVersion := azureCfg.ApiVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(azureCfg.Endpoint, "/"), config.Model, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if azureCfg.UseIdentity {
		token, err := c.tokenSource(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("api-key", config.Credentials.ApiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azure returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, providers.ErrNoCompletion
	}

	model := parsed.Model
	if model == "" {
		model = config.Model
	}
	return &providers.AnalysisResponse{
		ID:       parsed.ID,
		Model:    model,
		Response: parsed.Choices[0].Message.Content,
		Usage:    parsed.Usage,
	}, nil
}

func (c *client) defaultToken(ctx context.Context) (string, error) {
	c.credOnce.Do(func() {
		c.cred, c.credErr = azidentity.NewDefaultAzureCredential(nil)
	})
	if c.credErr != nil {
		return "", fmt.Errorf("failed to create credential: %w", c.credErr)
	}
	token, err := c.cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveScope},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token.Token, nil
}

package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the minimal contract the runtime needs from a hosted model: send
// a system prompt plus transcript, receive the assistant's text reply.
type Client interface {
	Complete(ctx context.Context, system string, history []ChatMessage) (string, error)
}

// NewClient builds the provider client selected by the options. Options must
// already be defaulted and validated.
func NewClient(options Options) (Client, error) {
	httpClient := &http.Client{Timeout: options.HTTPTimeout}
	switch options.Provider {
	case ProviderOpenAI:
		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return &openAIClient{
			apiKey:     options.APIKey,
			model:      options.Model,
			endpoint:   strings.TrimSuffix(baseURL, "/") + "/chat/completions",
			httpClient: httpClient,
			retry:      options.Retry,
		}, nil
	case ProviderAzureOpenAI:
		endpoint := options.BaseURL
		if endpoint == "" {
			endpoint = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
				strings.TrimSuffix(options.AzureEndpoint, "/"), options.AzureDeployment, options.AzureAPIVersion)
		}
		return &openAIClient{
			apiKey:     options.APIKey,
			model:      options.Model,
			endpoint:   endpoint,
			azure:      true,
			httpClient: httpClient,
			retry:      options.Retry,
		}, nil
	case ProviderAnthropic:
		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = "https://api.anthropic.com"
		}
		return &anthropicClient{
			apiKey:     options.APIKey,
			model:      options.Model,
			endpoint:   strings.TrimSuffix(baseURL, "/") + "/v1/messages",
			httpClient: httpClient,
			retry:      options.Retry,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", options.Provider)
	}
}

// openAIClient talks to the OpenAI chat completions API. With azure set it
// uses the deployment-scoped endpoint and api-key header instead.
type openAIClient struct {
	apiKey     string
	model      string
	endpoint   string
	azure      bool
	httpClient *http.Client
	retry      *RetryConfig
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model,omitempty"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Complete(ctx context.Context, system string, history []ChatMessage) (string, error) {
	messages := make([]chatCompletionMessage, 0, len(history)+1)
	if system != "" {
		messages = append(messages, chatCompletionMessage{Role: string(RoleSystem), Content: system})
	}
	for _, entry := range history {
		messages = append(messages, chatCompletionMessage{Role: string(entry.Role), Content: entry.Content})
	}

	payload := chatCompletionRequest{Messages: messages, Temperature: 0.1}
	if !c.azure {
		payload.Model = c.model
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}

	provider := "openai"
	if c.azure {
		provider = "azure_openai"
	}

	var content string
	err = withRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%s: build request: %w", provider, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.azure {
			req.Header.Set("api-key", c.apiKey)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: do request: %w", provider, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			return &apiError{provider: provider, status: resp.StatusCode, body: string(msg)}
		}

		var completion chatCompletionResponse
		if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
			return fmt.Errorf("%s: decode response: %w", provider, err)
		}
		if len(completion.Choices) == 0 {
			return fmt.Errorf("%s: response contained no choices", provider)
		}
		content = completion.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// anthropicClient talks to the Anthropic messages API.
type anthropicClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	retry      *RetryConfig
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Complete(ctx context.Context, system string, history []ChatMessage) (string, error) {
	messages := make([]anthropicMessage, 0, len(history))
	for _, entry := range history {
		role := string(entry.Role)
		if entry.Role == RoleSystem {
			// The messages API takes the system prompt out of band.
			system = strings.TrimSpace(system + "\n\n" + entry.Content)
			continue
		}
		messages = append(messages, anthropicMessage{Role: role, Content: entry.Content})
	}
	if len(messages) == 0 {
		return "", errors.New("anthropic: no messages to send")
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		System:      system,
		Messages:    messages,
		MaxTokens:   4096,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: encode request: %w", err)
	}

	var content string
	err = withRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("anthropic: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("anthropic: do request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			return &apiError{provider: "anthropic", status: resp.StatusCode, body: string(msg)}
		}

		var reply anthropicResponse
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return fmt.Errorf("anthropic: decode response: %w", err)
		}
		var builder strings.Builder
		for _, block := range reply.Content {
			if block.Type == "text" {
				builder.WriteString(block.Text)
			}
		}
		content = builder.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

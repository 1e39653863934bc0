package runtime

import (
	"errors"
	"fmt"
	"time"
)

// Options configures the assistant runtime. Zero values fall back to
// defaults suited for interactive use.
type Options struct {
	Provider Provider
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string

	// Azure OpenAI specifics; required when Provider is azure_openai.
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIVersion string

	// SessionID is the default session when a request does not name one.
	SessionID string

	// HistoryWindow caps how many transcript messages are replayed as
	// context on each turn.
	HistoryWindow int

	// DocumentContextLimit bounds the size of the uploaded-document context
	// block injected into prompts, in bytes.
	DocumentContextLimit int

	HTTPTimeout time.Duration
	Retry       *RetryConfig
	Logger      Logger
}

func (o *Options) setDefaults() {
	if o.Provider == "" {
		o.Provider = ProviderOpenAI
	}
	if o.Model == "" {
		switch o.Provider {
		case ProviderAnthropic:
			o.Model = "claude-3.7-sonnet"
		default:
			o.Model = "gpt-4o"
		}
	}
	if o.AzureAPIVersion == "" {
		o.AzureAPIVersion = "2024-08-01-preview"
	}
	if o.SessionID == "" {
		o.SessionID = "default"
	}
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 30
	}
	if o.DocumentContextLimit <= 0 {
		o.DocumentContextLimit = 2000
	}
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = 120 * time.Second
	}
	if o.Retry == nil {
		o.Retry = DefaultRetryConfig()
	}
	if o.Logger == nil {
		o.Logger = &NopLogger{}
	}
}

func (o *Options) validate() error {
	switch o.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if o.APIKey == "" {
			return fmt.Errorf("%s: API key is required", o.Provider)
		}
	case ProviderAzureOpenAI:
		if o.APIKey == "" {
			return errors.New("azure_openai: API key is required")
		}
		if o.AzureEndpoint == "" || o.AzureDeployment == "" {
			return errors.New("azure_openai: endpoint and deployment are required")
		}
	default:
		return fmt.Errorf("unknown provider %q", o.Provider)
	}
	return nil
}

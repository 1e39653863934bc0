package runtime

import (
	"time"

	"github.com/pagewright/pagewright/pkg/patch"
)

// MessageRole enumerates the chat roles exchanged with the assistant.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage stores a single message of a session transcript.
type ChatMessage struct {
	Role      MessageRole
	Content   string
	Timestamp time.Time
}

// Provider selects which hosted model API serves a session.
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderAzureOpenAI Provider = "azure_openai"
	ProviderAnthropic   Provider = "anthropic"
)

// RequestType is the router's verdict for an incoming prompt.
type RequestType string

const (
	RequestChat RequestType = "chat"
	RequestCode RequestType = "code"
)

// Classification is the structured routing reply returned by the model.
type Classification struct {
	Type       RequestType `json:"type"`
	Confidence float64     `json:"confidence"`
	Reasoning  string      `json:"reasoning"`
}

// Request carries one user turn plus the current editor state so the code
// agent can modify existing work instead of regenerating it.
type Request struct {
	Prompt    string
	SessionID string

	EditorCode     string
	EditorFilename string
	EditorLanguage string

	// DisableIncremental forces full generation even when editor code exists.
	DisableIncremental bool
}

// GenerationResult is the structured outcome of one processed turn. Exactly
// one of Code or Update is populated for code requests; chat requests carry
// only Response.
type GenerationResult struct {
	RequestType RequestType
	Confidence  float64
	Reasoning   string
	Response    string
	Code        string
	Filename    string
	Language    string
	Update      *patch.UpdateBatch
	SessionID   string
}

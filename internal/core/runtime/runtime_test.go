package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testRuntime(client Client) *Runtime {
	options := Options{Provider: ProviderOpenAI, APIKey: "test"}
	options.setDefaults()
	return &Runtime{
		options:  options,
		client:   client,
		sessions: NewSessionStore(),
		logger:   options.Logger,
	}
}

func TestProcessRequestChatTurn(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		`{"type":"chat","confidence":0.9,"reasoning":"a question"}`,
		"GitHub Pages serves static sites from a repository.",
	}}
	rt := testRuntime(client)

	result, err := rt.ProcessRequest(context.Background(), Request{Prompt: "what is GitHub Pages?"})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}
	if result.RequestType != RequestChat || result.Confidence != 0.9 {
		t.Fatalf("classification not propagated: %+v", result)
	}
	if !strings.Contains(result.Response, "static sites") {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if result.SessionID != "default" {
		t.Fatalf("expected default session, got %q", result.SessionID)
	}
	if got := rt.Sessions().MessageCount("default"); got != 2 {
		t.Fatalf("expected user + assistant turn in memory, got %d messages", got)
	}
}

func TestProcessRequestCodeTurnFullGeneration(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		`{"type":"code","confidence":0.95,"reasoning":"asks for a page"}`,
		"EXPLANATION: Built a landing page.\nCODE:\n<html></html>\nFILENAME: index.html\nLANGUAGE: HTML",
	}}
	rt := testRuntime(client)

	result, err := rt.ProcessRequest(context.Background(), Request{
		Prompt:    "build me a landing page",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}
	if result.RequestType != RequestCode {
		t.Fatalf("expected code request, got %q", result.RequestType)
	}
	if result.Code != "<html></html>" || result.Filename != "index.html" {
		t.Fatalf("unexpected generation: %+v", result)
	}
	if result.Update != nil {
		t.Fatalf("full generation must not carry incremental operations")
	}

	history := rt.Sessions().History("s1")
	if len(history) != 2 || !strings.Contains(history[1].Content, "Generated index.html") {
		t.Fatalf("unexpected memory note: %+v", history)
	}
}

func TestProcessRequestCodeTurnIncremental(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		`{"type":"code","confidence":0.95,"reasoning":"asks for an edit"}`,
		`EXPLANATION: Recolored the button.
INCREMENTAL_OPERATIONS:
[{"operation": "replace", "old_content": "blue", "new_content": "green"}]`,
	}}
	rt := testRuntime(client)

	result, err := rt.ProcessRequest(context.Background(), Request{
		Prompt:     "make the button green",
		SessionID:  "s1",
		EditorCode: "<button class=\"blue\">go</button>",
	})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}
	if result.Update == nil || len(result.Update.Operations) != 1 {
		t.Fatalf("expected one incremental operation, got %+v", result.Update)
	}

	// The agent prompt must carry the editor buffer so the model can target it.
	last := client.prompts[len(client.prompts)-1]
	if !strings.Contains(last, "<button class=\"blue\">go</button>") {
		t.Fatalf("editor code missing from agent prompt:\n%s", last)
	}

	history := rt.Sessions().History("s1")
	if len(history) != 2 || !strings.Contains(history[1].Content, "1 incremental operation(s)") {
		t.Fatalf("unexpected memory note: %+v", history)
	}
}

func TestProcessRequestIncrementalDisabledUsesFullGeneration(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		`{"type":"code","confidence":0.95,"reasoning":"asks for an edit"}`,
		"EXPLANATION: Rebuilt the page.\nCODE:\n<html>v2</html>\nFILENAME: index.html\nLANGUAGE: HTML",
	}}
	rt := testRuntime(client)

	result, err := rt.ProcessRequest(context.Background(), Request{
		Prompt:             "make the button green",
		EditorCode:         "<button>go</button>",
		DisableIncremental: true,
	})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}
	if result.Update != nil {
		t.Fatalf("incremental disabled but got operations: %+v", result.Update)
	}
	if result.Code != "<html>v2</html>" {
		t.Fatalf("unexpected code: %q", result.Code)
	}
}

func TestProcessRequestRecordsFailedTurn(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		`{"type":"chat","confidence":0.9,"reasoning":"a question"}`,
	}}
	// Second call (the chat turn) exhausts the script and errors.
	rt := testRuntime(client)

	if _, err := rt.ProcessRequest(context.Background(), Request{Prompt: "hello"}); err == nil {
		t.Fatalf("expected error when the chat turn fails")
	}

	history := rt.Sessions().History("default")
	if len(history) != 2 || !strings.HasPrefix(history[1].Content, "error:") {
		t.Fatalf("failed turn not recorded: %+v", history)
	}
}

func TestProcessRequestClassifierErrorFallsBackToChat(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{err: errors.New("provider down")}
	rt := testRuntime(client)

	if _, err := rt.ProcessRequest(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Fatalf("expected error when every call fails")
	}
	// The classifier failure must not short-circuit routing; the chat agent
	// is still attempted.
	if client.calls != 2 {
		t.Fatalf("expected classifier + chat calls, got %d", client.calls)
	}
}

func TestNewRejectsMissingKey(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Provider: ProviderOpenAI}); err == nil {
		t.Fatalf("expected validation error for missing API key")
	}
}

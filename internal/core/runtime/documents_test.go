package runtime

import (
	"strings"
	"testing"
)

func TestBuildDocumentContextEmpty(t *testing.T) {
	t.Parallel()

	if got := BuildDocumentContext(nil, 1000); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestBuildDocumentContextHeaders(t *testing.T) {
	t.Parallel()

	context := BuildDocumentContext([]Document{
		{Name: "resume.md", Content: "ten years of Go"},
		{Content: "unnamed"},
	}, 1000)
	if !strings.Contains(context, "[Document: resume.md]") {
		t.Fatalf("missing named header: %q", context)
	}
	if !strings.Contains(context, "[Document: Document 2]") {
		t.Fatalf("missing fallback header: %q", context)
	}
}

func TestBuildDocumentContextTruncatesFirstDocument(t *testing.T) {
	t.Parallel()

	context := BuildDocumentContext([]Document{
		{Name: "big.md", Content: strings.Repeat("a", 5000)},
	}, 500)
	if len(context) > 500 {
		t.Fatalf("context exceeds budget: %d bytes", len(context))
	}
	if !strings.HasSuffix(context, "...[truncated]") {
		t.Fatalf("expected truncation marker, got %q", context[len(context)-30:])
	}
}

func TestBuildDocumentContextStopsAtBudget(t *testing.T) {
	t.Parallel()

	context := BuildDocumentContext([]Document{
		{Name: "first.md", Content: strings.Repeat("a", 100)},
		{Name: "second.md", Content: strings.Repeat("b", 5000)},
	}, 300)
	if !strings.Contains(context, "first.md") {
		t.Fatalf("first document should fit: %q", context)
	}
	if strings.Contains(context, "second.md") {
		t.Fatalf("second document should have been dropped")
	}
}

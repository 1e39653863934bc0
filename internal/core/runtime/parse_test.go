package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagewright/pagewright/pkg/patch"
)

func TestParseCodeResponseSectionedFormat(t *testing.T) {
	t.Parallel()

	reply := `EXPLANATION: Added a hero section.
CODE:
<html><body>hi</body></html>
FILENAME: index.html
LANGUAGE: HTML`

	parsed := parseCodeResponse(reply, false, "", "", &NopLogger{})
	require.Equal(t, "Added a hero section.", parsed.Explanation)
	require.Equal(t, "<html><body>hi</body></html>", parsed.Code)
	require.Equal(t, "index.html", parsed.Filename)
	require.Equal(t, "html", parsed.Language)
	require.Nil(t, parsed.Update)
}

func TestParseCodeResponseIncrementalOperations(t *testing.T) {
	t.Parallel()

	reply := `EXPLANATION: Recolor the header.
INCREMENTAL_OPERATIONS:
[
  {"operation": "replace", "target": "header color", "old_content": "color: red", "new_content": "color: blue"},
  {"operation": "append", "new_content": "/* done */"}
]`

	parsed := parseCodeResponse(reply, true, "style.css", "css", &NopLogger{})
	require.NotNil(t, parsed.Update)
	require.Equal(t, patch.BatchIncremental, parsed.Update.Type)
	require.Len(t, parsed.Update.Operations, 2)
	require.Equal(t, patch.KindReplace, parsed.Update.Operations[0].Kind)
	require.Equal(t, "color: blue", parsed.Update.Operations[0].NewText)
	require.Equal(t, "Recolor the header.", parsed.Update.Explanation)
	require.Empty(t, parsed.Code)
}

func TestParseCodeResponseIncrementalLineBounds(t *testing.T) {
	t.Parallel()

	reply := `EXPLANATION: tighten spacing
INCREMENTAL_OPERATIONS:
[{"operation": "delete", "line_start": 4, "line_end": 6, "new_content": ""}]`

	parsed := parseCodeResponse(reply, true, "", "", &NopLogger{})
	require.NotNil(t, parsed.Update)
	op := parsed.Update.Operations[0]
	require.NotNil(t, op.LineStart)
	require.Equal(t, 4, *op.LineStart)
	require.NotNil(t, op.LineEnd)
	require.Equal(t, 6, *op.LineEnd)
}

func TestParseCodeResponseInvalidOperationsFallsBack(t *testing.T) {
	t.Parallel()

	// "rewrite" is not a known operation kind, so schema validation rejects
	// the payload and parsing falls back to treating the reply as code.
	reply := `INCREMENTAL_OPERATIONS:
[{"operation": "rewrite", "new_content": "x"}]`

	parsed := parseCodeResponse(reply, true, "", "", &NopLogger{})
	require.Nil(t, parsed.Update)
	require.NotEmpty(t, parsed.Code)
}

func TestParseCodeResponseIncrementalDisabled(t *testing.T) {
	t.Parallel()

	reply := `INCREMENTAL_OPERATIONS:
[{"operation": "append", "new_content": "tail"}]`

	parsed := parseCodeResponse(reply, false, "", "", &NopLogger{})
	require.Nil(t, parsed.Update)
}

func TestParseCodeResponseFencedMarkdownFallback(t *testing.T) {
	t.Parallel()

	reply := "Here is a minimal page.\n\n```html\n<h1>hello</h1>\n```\n"
	parsed := parseCodeResponse(reply, false, "", "", &NopLogger{})
	require.Equal(t, "<h1>hello</h1>", parsed.Code)
	require.Equal(t, "html", parsed.Language)
	require.Equal(t, "Here is a minimal page.", parsed.Explanation)
}

func TestParseCodeResponseWholeReplyFallback(t *testing.T) {
	t.Parallel()

	parsed := parseCodeResponse("<p>bare html</p>", false, "", "", &NopLogger{})
	require.Equal(t, "<p>bare html</p>", parsed.Code)
	require.Equal(t, "Generated code based on your request", parsed.Explanation)
	require.Equal(t, "index.html", parsed.Filename)
}

func TestStripFenceUnwrapsCode(t *testing.T) {
	t.Parallel()

	code := "```html\n<div></div>\n```"
	require.Equal(t, "<div></div>", stripFence(code))
	require.Equal(t, "plain", stripFence("plain"))
}

package runtime

import (
	"strconv"
	"strings"
)

// Document is a user-supplied text attachment (resume, bio, notes) that the
// agents weave into their prompts so generated sites carry real data instead
// of placeholders.
type Document struct {
	Name    string
	Content string
}

// BuildDocumentContext concatenates documents into a bounded context block.
// Each document gets a header naming its source; when the budget runs out the
// first document is truncated rather than dropped so at least some context
// always survives.
func BuildDocumentContext(docs []Document, maxLen int) string {
	if len(docs) == 0 {
		return ""
	}

	var parts []string
	used := 0
	for i, doc := range docs {
		name := doc.Name
		if name == "" {
			name = "Document " + strconv.Itoa(i+1)
		}
		header := "[Document: " + name + "]\n"
		content := strings.TrimSpace(doc.Content)
		total := header + content

		if used+len(total) > maxLen {
			if len(parts) == 0 {
				remaining := maxLen - len(header) - 50
				if remaining > 100 {
					parts = append(parts, header+content[:remaining]+"...[truncated]")
				}
			}
			break
		}
		parts = append(parts, total)
		used += len(total)
	}
	return strings.Join(parts, "\n\n")
}

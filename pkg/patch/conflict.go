package patch

import (
	"fmt"
	"strings"
)

const conflictSnippetLimit = 50

// DetectConflicts inspects a set of operations against the original buffer
// before anything is applied. It reports one message per pair of line-bounded
// operations whose ranges overlap, followed by one message per content-matched
// replace whose expected content is missing from the buffer. An empty result
// means the batch has no structural problems; it does not guarantee every
// operation will apply.
func DetectConflicts(originalText string, ops []EditOperation) []string {
	var conflicts []string

	for i := 0; i < len(ops); i++ {
		if !hasLineBounds(ops[i]) {
			continue
		}
		for j := i + 1; j < len(ops); j++ {
			if !hasLineBounds(ops[j]) {
				continue
			}
			if *ops[i].LineStart <= *ops[j].LineEnd && *ops[j].LineStart <= *ops[i].LineEnd {
				conflicts = append(conflicts, fmt.Sprintf(
					"operations %d and %d overlap: lines %d-%d and %d-%d",
					i+1, j+1, *ops[i].LineStart, *ops[i].LineEnd, *ops[j].LineStart, *ops[j].LineEnd))
			}
		}
	}

	for i, op := range ops {
		if op.Kind != KindReplace || hasLineBounds(op) || op.OldText == "" {
			continue
		}
		if !strings.Contains(originalText, op.OldText) {
			conflicts = append(conflicts, fmt.Sprintf(
				"operation %d: content %q not found in buffer", i+1, truncateSnippet(op.OldText)))
		}
	}

	return conflicts
}

// PreviewChanges is a dry run: it refuses to apply anything when conflicts
// exist, returning the untouched buffer and the conflict list. With no
// conflicts it applies the operations as a low-impact incremental batch.
func PreviewChanges(originalText string, ops []EditOperation) Preview {
	if conflicts := DetectConflicts(originalText, ops); len(conflicts) > 0 {
		return Preview{Text: originalText, Conflicts: conflicts}
	}

	result := ApplyBatch(originalText, UpdateBatch{
		Type:       BatchIncremental,
		Operations: ops,
		Impact:     ImpactLow,
	})
	return Preview{Text: result.UpdatedText, Changes: result.Changes}
}

func truncateSnippet(s string) string {
	if len(s) <= conflictSnippetLimit {
		return s
	}
	return s[:conflictSnippetLimit] + "..."
}

// Package diff renders unified diffs of editor buffers so applied edits can
// be reviewed before they are deployed.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const contextLines = 3

// Unified produces a classic unified patch (---/+++ headers, @@ hunks) for
// the change from a to b. Identical inputs yield an empty string.
func Unified(aName, bName, a, b string) string {
	if a == b {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  contextLines,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}

// Stat counts added and removed lines in a unified patch body.
func Stat(patch string) (added, removed int) {
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

// splitLinesKeepNL keeps the trailing newline on each element, which
// produces cleaner unified hunks than bare line splitting.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

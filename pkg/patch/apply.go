package patch

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ApplyBatch transforms originalText according to batch and reports what
// changed. Operations are applied from the highest line number down so that
// earlier edits never invalidate the line numbers of edits still pending;
// operations without line bounds run first. Individual operations that cannot
// be applied are skipped and the batch continues. Only a panic during
// processing fails the whole batch, in which case the original text is
// returned unchanged with OK set to false.
func ApplyBatch(originalText string, batch UpdateBatch) (result ApplyResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ApplyResult{
				UpdatedText:  originalText,
				ErrorMessage: fmt.Sprintf("batch failed: %v", r),
			}
		}
	}()

	text := originalText
	var changes []ChangeRecord
	var skipped []SkippedOperation
	for _, op := range orderOperations(batch.Operations) {
		updated, record, err := ApplyOperation(text, op)
		if err != nil {
			skipped = append(skipped, SkippedOperation{Kind: op.Kind, Reason: err.Error()})
			continue
		}
		text = updated
		if record != nil {
			changes = append(changes, *record)
		}
	}

	return ApplyResult{OK: true, UpdatedText: text, Changes: changes, Skipped: skipped}
}

// orderOperations returns a copy of ops sorted by LineStart descending.
// Operations without a start line sort above all numbered ones so they are
// applied before any edit that relies on stable line numbering. The sort is
// stable, so operations with equal priority keep their received order.
func orderOperations(ops []EditOperation) []EditOperation {
	ordered := append([]EditOperation(nil), ops...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return startLine(ordered[i]) > startLine(ordered[j])
	})
	return ordered
}

func startLine(op EditOperation) int {
	if op.LineStart == nil {
		return math.MaxInt
	}
	return *op.LineStart
}

// ApplyOperation applies a single operation to text. The returned error marks
// the operation as skipped (bad bounds, unmatched content, unsupported kind);
// it never aborts a batch.
func ApplyOperation(text string, op EditOperation) (string, *ChangeRecord, error) {
	switch op.Kind {
	case KindReplace:
		return applyReplace(text, op)
	case KindInsert:
		return applyInsert(text, op)
	case KindDelete:
		return applyDelete(text, op)
	case KindAppend:
		return applyAppend(text, op)
	case KindPrepend:
		return applyPrepend(text, op)
	default:
		return text, nil, fmt.Errorf("unsupported operation kind %q", op.Kind)
	}
}

func applyReplace(text string, op EditOperation) (string, *ChangeRecord, error) {
	if hasLineBounds(op) {
		lines := splitLines(text)
		start, end := *op.LineStart-1, *op.LineEnd-1
		if start < 0 || end >= len(lines) || start > end {
			return text, nil, fmt.Errorf("replace bounds %d-%d out of range for %d lines", *op.LineStart, *op.LineEnd, len(lines))
		}
		record := &ChangeRecord{
			Kind:        KindReplace,
			LineStart:   *op.LineStart,
			LineEnd:     *op.LineEnd,
			OldContent:  strings.Join(lines[start:end+1], "\n"),
			NewContent:  op.NewText,
			Description: fmt.Sprintf("Replaced lines %d-%d", *op.LineStart, *op.LineEnd),
		}
		updated := splice(lines, start, end-start+1, splitLines(op.NewText))
		return strings.Join(updated, "\n"), record, nil
	}

	if op.OldText == "" {
		return text, nil, fmt.Errorf("replace operation has neither line bounds nor old content")
	}
	if !strings.Contains(text, op.OldText) {
		return text, nil, fmt.Errorf("old content not found for replace")
	}
	line := matchLine(splitLines(text), op.OldText)
	record := &ChangeRecord{
		Kind:        KindReplace,
		LineStart:   line,
		LineEnd:     line,
		OldContent:  op.OldText,
		NewContent:  op.NewText,
		Description: fmt.Sprintf("Replaced content at line %d", line),
	}
	// First occurrence only; the engine never does a global replace.
	return strings.Replace(text, op.OldText, op.NewText, 1), record, nil
}

func applyInsert(text string, op EditOperation) (string, *ChangeRecord, error) {
	if op.LineStart == nil {
		return text, nil, fmt.Errorf("insert operation requires line_start")
	}
	lines := splitLines(text)
	index := *op.LineStart - 1
	if index < 0 || index > len(lines) {
		return text, nil, fmt.Errorf("insert line %d out of range for %d lines", *op.LineStart, len(lines))
	}
	inserted := splitLines(op.NewText)
	record := &ChangeRecord{
		Kind:        KindInsert,
		LineStart:   *op.LineStart,
		LineEnd:     *op.LineStart + len(inserted) - 1,
		NewContent:  op.NewText,
		Description: fmt.Sprintf("Inserted %d %s at line %d", len(inserted), lineWord(len(inserted)), *op.LineStart),
	}
	updated := splice(lines, index, 0, inserted)
	return strings.Join(updated, "\n"), record, nil
}

func applyDelete(text string, op EditOperation) (string, *ChangeRecord, error) {
	if hasLineBounds(op) {
		lines := splitLines(text)
		start, end := *op.LineStart-1, *op.LineEnd-1
		if start < 0 || end >= len(lines) || start > end {
			return text, nil, fmt.Errorf("delete bounds %d-%d out of range for %d lines", *op.LineStart, *op.LineEnd, len(lines))
		}
		record := &ChangeRecord{
			Kind:        KindDelete,
			LineStart:   *op.LineStart,
			LineEnd:     *op.LineEnd,
			OldContent:  strings.Join(lines[start:end+1], "\n"),
			Description: fmt.Sprintf("Deleted lines %d-%d", *op.LineStart, *op.LineEnd),
		}
		updated := splice(lines, start, end-start+1, nil)
		return strings.Join(updated, "\n"), record, nil
	}

	if op.OldText == "" {
		return text, nil, fmt.Errorf("delete operation has neither line bounds nor old content")
	}
	if !strings.Contains(text, op.OldText) {
		return text, nil, fmt.Errorf("old content not found for delete")
	}
	line := matchLine(splitLines(text), op.OldText)
	record := &ChangeRecord{
		Kind:        KindDelete,
		LineStart:   line,
		LineEnd:     line,
		OldContent:  op.OldText,
		Description: fmt.Sprintf("Deleted content at line %d", line),
	}
	// Raw substring removal. Surrounding whitespace is left exactly as it
	// was, so deleting a whole line's content leaves an empty line behind.
	return strings.Replace(text, op.OldText, "", 1), record, nil
}

func applyAppend(text string, op EditOperation) (string, *ChangeRecord, error) {
	lines := splitLines(text)
	added := splitLines(op.NewText)
	record := &ChangeRecord{
		Kind:        KindAppend,
		LineStart:   len(lines) + 1,
		LineEnd:     len(lines) + len(added),
		NewContent:  op.NewText,
		Description: fmt.Sprintf("Appended %d %s at end of file", len(added), lineWord(len(added))),
	}
	return strings.Join(append(lines, added...), "\n"), record, nil
}

func applyPrepend(text string, op EditOperation) (string, *ChangeRecord, error) {
	lines := splitLines(text)
	added := splitLines(op.NewText)
	record := &ChangeRecord{
		Kind:        KindPrepend,
		LineStart:   1,
		LineEnd:     len(added),
		NewContent:  op.NewText,
		Description: fmt.Sprintf("Prepended %d %s at start of file", len(added), lineWord(len(added))),
	}
	return strings.Join(splice(lines, 0, 0, added), "\n"), record, nil
}

func hasLineBounds(op EditOperation) bool {
	return op.LineStart != nil && op.LineEnd != nil
}

// splitLines splits on "\n" only. Embedded "\r" characters stay part of the
// line content, and the empty string yields a single empty line; downstream
// line counts depend on both behaviors.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// matchLine reports the 1-based number of the first line containing the
// trimmed needle, or 1 when no single line contains it (multi-line content).
func matchLine(lines []string, needle string) int {
	trimmed := strings.TrimSpace(needle)
	for i, line := range lines {
		if strings.Contains(line, trimmed) {
			return i + 1
		}
	}
	return 1
}

func splice(lines []string, index, deleteCount int, replacement []string) []string {
	result := make([]string, 0, len(lines)-deleteCount+len(replacement))
	result = append(result, lines[:index]...)
	result = append(result, replacement...)
	result = append(result, lines[index+deleteCount:]...)
	return result
}

func lineWord(n int) string {
	if n == 1 {
		return "line"
	}
	return "lines"
}

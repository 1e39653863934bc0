package patch

import (
	"strings"
	"testing"
)

func TestDetectConflictsOverlappingRanges(t *testing.T) {
	t.Parallel()

	ops := []EditOperation{
		{Kind: KindReplace, NewText: "A", LineStart: intPtr(1), LineEnd: intPtr(3)},
		{Kind: KindReplace, NewText: "B", LineStart: intPtr(2), LineEnd: intPtr(5)},
	}
	conflicts := DetectConflicts("1\n2\n3\n4\n5", ops)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %v", conflicts)
	}

	ops[1].LineStart, ops[1].LineEnd = intPtr(4), intPtr(6)
	if conflicts := DetectConflicts("1\n2\n3\n4\n5\n6", ops); len(conflicts) != 0 {
		t.Fatalf("adjacent ranges should not conflict: %v", conflicts)
	}
}

func TestDetectConflictsMissingContent(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("y", 80)
	conflicts := DetectConflicts("short buffer", []EditOperation{{
		Kind:    KindReplace,
		OldText: long,
		NewText: "z",
	}})
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], strings.Repeat("y", 50)+"...") {
		t.Fatalf("expected truncated snippet in message: %q", conflicts[0])
	}
	if strings.Contains(conflicts[0], long) {
		t.Fatalf("snippet was not truncated: %q", conflicts[0])
	}
}

func TestDetectConflictsReportsPairsBeforeContent(t *testing.T) {
	t.Parallel()

	ops := []EditOperation{
		{Kind: KindReplace, OldText: "missing", NewText: "z"},
		{Kind: KindDelete, LineStart: intPtr(1), LineEnd: intPtr(2)},
		{Kind: KindReplace, NewText: "w", LineStart: intPtr(2), LineEnd: intPtr(3)},
	}
	conflicts := DetectConflicts("a\nb\nc", ops)
	if len(conflicts) != 2 {
		t.Fatalf("expected two conflicts, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], "overlap") {
		t.Fatalf("pair conflicts should come first: %v", conflicts)
	}
	if !strings.Contains(conflicts[1], "not found") {
		t.Fatalf("content conflicts should come last: %v", conflicts)
	}
}

func TestPreviewChangesRefusesConflictedBatch(t *testing.T) {
	t.Parallel()

	text := "a\nb\nc\nd\ne"
	preview := PreviewChanges(text, []EditOperation{
		{Kind: KindReplace, NewText: "X", LineStart: intPtr(1), LineEnd: intPtr(3)},
		{Kind: KindReplace, NewText: "Y", LineStart: intPtr(2), LineEnd: intPtr(5)},
		{Kind: KindAppend, NewText: "clean"},
	})
	if preview.Text != text {
		t.Fatalf("preview must leave the buffer untouched on conflict: %q", preview.Text)
	}
	if len(preview.Changes) != 0 {
		t.Fatalf("no changes should apply on conflict: %+v", preview.Changes)
	}
	if len(preview.Conflicts) == 0 {
		t.Fatalf("expected conflicts to be surfaced")
	}
}

func TestPreviewChangesAppliesCleanBatch(t *testing.T) {
	t.Parallel()

	preview := PreviewChanges("a\nb", []EditOperation{{
		Kind:      KindReplace,
		NewText:   "B",
		LineStart: intPtr(2),
		LineEnd:   intPtr(2),
	}})
	if len(preview.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if got, want := preview.Text, "a\nB"; got != want {
		t.Fatalf("preview text mismatch: got %q want %q", got, want)
	}
	if len(preview.Changes) != 1 {
		t.Fatalf("expected one change, got %+v", preview.Changes)
	}
}

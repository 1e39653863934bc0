package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	runtimepkg "github.com/pagewright/pagewright/internal/core/runtime"
	"github.com/pagewright/pagewright/pkg/patch"
)

func intPtr(v int) *int { return &v }

func newTestModel() *model {
	m := newModel(nil, nil, nil)
	m.vp.Width = 80
	return m
}

func TestApplyUpdateChangesBuffer(t *testing.T) {
	m := newTestModel()
	m.buffer = "line one\nline two\nline three"
	m.filename = "index.html"

	m.applyUpdate(&patch.UpdateBatch{
		Type: patch.BatchIncremental,
		Operations: []patch.EditOperation{
			{Kind: patch.KindReplace, LineStart: intPtr(2), LineEnd: intPtr(2), NewText: "LINE TWO"},
		},
	})

	if m.buffer != "line one\nLINE TWO\nline three" {
		t.Fatalf("buffer not updated: %q", m.buffer)
	}
	transcript := m.renderTranscript()
	if !strings.Contains(transcript, "Replaced lines 2-2") {
		t.Fatalf("change summary missing from transcript:\n%s", transcript)
	}
	if !strings.Contains(transcript, "-line two") || !strings.Contains(transcript, "+LINE TWO") {
		t.Fatalf("diff missing from transcript:\n%s", transcript)
	}
}

func TestApplyUpdateRefusesConflictedBatch(t *testing.T) {
	m := newTestModel()
	m.buffer = "a\nb\nc\nd\ne"

	m.applyUpdate(&patch.UpdateBatch{
		Type: patch.BatchIncremental,
		Operations: []patch.EditOperation{
			{Kind: patch.KindReplace, LineStart: intPtr(1), LineEnd: intPtr(3), NewText: "x"},
			{Kind: patch.KindDelete, LineStart: intPtr(2), LineEnd: intPtr(4)},
		},
	})

	if m.buffer != "a\nb\nc\nd\ne" {
		t.Fatalf("conflicted batch must not touch the buffer: %q", m.buffer)
	}
	if !strings.Contains(m.renderTranscript(), "overlap") {
		t.Fatalf("conflict not surfaced:\n%s", m.renderTranscript())
	}
}

func TestApplyUpdateReportsSkippedOperations(t *testing.T) {
	m := newTestModel()
	m.buffer = "a\nb"

	m.applyUpdate(&patch.UpdateBatch{
		Type: patch.BatchIncremental,
		Operations: []patch.EditOperation{
			{Kind: patch.KindAppend, NewText: "c"},
			{Kind: patch.Kind("rewrite"), NewText: "x"},
		},
	})

	if m.buffer != "a\nb\nc" {
		t.Fatalf("valid operation not applied: %q", m.buffer)
	}
	transcript := m.renderTranscript()
	if !strings.Contains(transcript, "1 applied, 1 skipped") {
		t.Fatalf("partial-success indicator missing:\n%s", transcript)
	}
}

func TestHandleResultReplacesBufferOnFullGeneration(t *testing.T) {
	m := newTestModel()
	m.handleResult(runtimepkg.GenerationResult{
		Response: "Built the page.",
		Code:     "<html></html>",
		Filename: "index.html",
		Language: "html",
	})

	if m.buffer != "<html></html>" || m.filename != "index.html" {
		t.Fatalf("buffer not replaced: %q %q", m.buffer, m.filename)
	}
	if !strings.Contains(m.renderTranscript(), "buffer replaced with index.html") {
		t.Fatalf("editor note missing:\n%s", m.renderTranscript())
	}
}

func TestEnterWhileBusyLeavesInputIntact(t *testing.T) {
	m := newTestModel()
	m.busy = true
	m.ta.SetValue("pending prompt")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(*model)
	if got.ta.Value() != "pending prompt" {
		t.Fatalf("swallowed Enter changed the input: %q", got.ta.Value())
	}
	if !got.busy {
		t.Fatalf("busy state must survive a swallowed Enter")
	}
}

func TestEnterWithEmptyInputDoesNotGrowInput(t *testing.T) {
	m := newTestModel()

	for i := 0; i < 3; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(*model)
	}
	if m.ta.Value() != "" {
		t.Fatalf("empty submits accumulated newlines: %q", m.ta.Value())
	}
	if m.busy {
		t.Fatalf("empty prompt must not start a request")
	}
}

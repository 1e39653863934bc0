package diff

import (
	"strings"
	"testing"
)

func TestUnifiedBasicChange(t *testing.T) {
	t.Parallel()

	a := "one\ntwo\nthree\n"
	b := "one\n2\nthree\n"
	patch := Unified("index.html", "index.html", a, b)

	if !strings.Contains(patch, "--- index.html") || !strings.Contains(patch, "+++ index.html") {
		t.Fatalf("missing file headers:\n%s", patch)
	}
	if !strings.Contains(patch, "-two\n") || !strings.Contains(patch, "+2\n") {
		t.Fatalf("missing change lines:\n%s", patch)
	}
}

func TestUnifiedIdenticalInputs(t *testing.T) {
	t.Parallel()

	if patch := Unified("a", "b", "same\n", "same\n"); patch != "" {
		t.Fatalf("expected empty patch for identical inputs, got:\n%s", patch)
	}
}

func TestUnifiedFromEmpty(t *testing.T) {
	t.Parallel()

	patch := Unified("/dev/null", "new.html", "", "<html></html>\n")
	if !strings.Contains(patch, "+<html></html>\n") {
		t.Fatalf("added content missing:\n%s", patch)
	}
}

func TestStat(t *testing.T) {
	t.Parallel()

	patch := Unified("a", "b", "one\ntwo\nthree\n", "one\n2\nthree\nfour\n")
	added, removed := Stat(patch)
	if added != 2 || removed != 1 {
		t.Fatalf("got +%d -%d, want +2 -1", added, removed)
	}
}

func TestStatIgnoresHeaders(t *testing.T) {
	t.Parallel()

	added, removed := Stat("--- a\n+++ b\n@@ -1 +1 @@\n")
	if added != 0 || removed != 0 {
		t.Fatalf("headers counted as changes: +%d -%d", added, removed)
	}
}

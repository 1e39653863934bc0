package patch

// Kind identifies the category of a single edit operation.
type Kind string

const (
	// KindReplace swaps a span of the buffer for new content.
	KindReplace Kind = "replace"
	// KindInsert adds content immediately before a given line.
	KindInsert Kind = "insert"
	// KindDelete removes a span of the buffer.
	KindDelete Kind = "delete"
	// KindAppend adds content after the last line.
	KindAppend Kind = "append"
	// KindPrepend adds content before the first line.
	KindPrepend Kind = "prepend"
)

// Impact is an advisory rating attached to a batch. It has no behavioral
// effect on application.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// BatchIncremental is the update_type value for operation-based batches. The
// assistant may alternatively answer with a full replacement, in which case
// the host swaps the buffer wholesale and this package is not involved.
const BatchIncremental = "incremental"

// EditOperation describes one requested change. The JSON tags match the wire
// format emitted by the assistant.
//
// LineStart and LineEnd are 1-based and inclusive. When both are present they
// take precedence over OldText matching. Target is a free-text label from the
// assistant and is never used for matching.
type EditOperation struct {
	Kind      Kind   `json:"operation"`
	Target    string `json:"target,omitempty"`
	OldText   string `json:"old_content,omitempty"`
	NewText   string `json:"new_content"`
	LineStart *int   `json:"line_start,omitempty"`
	LineEnd   *int   `json:"line_end,omitempty"`
}

// UpdateBatch is the unit of work applied to a buffer. Operations keep the
// order in which they were received; ApplyBatch decides the application
// order itself.
type UpdateBatch struct {
	Type        string          `json:"update_type"`
	Operations  []EditOperation `json:"operations"`
	Explanation string          `json:"explanation"`
	Impact      Impact          `json:"estimated_impact"`
}

// ChangeRecord reports the result of one applied operation. LineStart and
// LineEnd refer to the buffer as it was when the operation ran; for append
// and prepend they describe the inserted span.
type ChangeRecord struct {
	Kind        Kind   `json:"kind"`
	LineStart   int    `json:"line_start"`
	LineEnd     int    `json:"line_end"`
	OldContent  string `json:"old_content"`
	NewContent  string `json:"new_content"`
	Description string `json:"description"`
}

// SkippedOperation records an operation that could not be applied. Skips are
// non-fatal; the batch continues with the remaining operations.
type SkippedOperation struct {
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// ApplyResult is the outcome of applying a full UpdateBatch. On failure
// UpdatedText equals the input and Changes is empty. Callers must check OK
// and should compare len(Changes) against the number of requested operations
// since a batch can succeed while skipping individual edits.
type ApplyResult struct {
	OK           bool               `json:"ok"`
	UpdatedText  string             `json:"updated_text"`
	Changes      []ChangeRecord     `json:"changes"`
	Skipped      []SkippedOperation `json:"skipped,omitempty"`
	ErrorMessage string             `json:"error,omitempty"`
}

// Preview is the outcome of a dry run. When Conflicts is non-empty, Text is
// the unmodified input and Changes is empty.
type Preview struct {
	Text      string         `json:"text"`
	Changes   []ChangeRecord `json:"changes"`
	Conflicts []string       `json:"conflicts,omitempty"`
}

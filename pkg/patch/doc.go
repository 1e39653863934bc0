// Package patch applies AI-suggested incremental edits to an in-memory text
// buffer.
//
// An assistant responds to a modification request with an UpdateBatch: an
// ordered list of edit operations addressed either by 1-based line bounds or
// by a literal content match. ApplyBatch transforms the buffer and reports
// exactly what changed so the host application can render a diff. Every
// function in the package is pure; there is no I/O and no shared state.
package patch

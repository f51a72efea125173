// Package diag defines the diagnostic model shared by the resolver, assembler,
// scheduler and linker.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while
//     resolving script semantics and linking output modules.
//   - Offer light-weight utilities (Reporter, Bag) so producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag performs no IO and no formatting beyond the single-line short
// form. Rendering lives in internal/diagfmt; orchestration lives in
// internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     SEM3xxx belong to the semantics resolver, LNK4xxx to the assembler,
//     scheduler and linker, PRJ5xxx to the project graph, IO6xxx to input loading
//     and OBS7xxx to observability notes.
//   - Message: short, actionable text.
//   - Primary: the source.Span of the offending declaration or marker.
//   - Notes: secondary spans, e.g. the other side of a collision.
//
// No diagnostic is fatal to the pipeline: every phase substitutes a fallback
// and keeps going. The driver suppresses output files when the final bag
// HasErrors.
package diag

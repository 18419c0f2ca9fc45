// Package diag defines the diagnostic model shared by every compiler phase.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string form, a message, the primary source.Span, and optional Notes
// pointing at secondary locations ("declared here", "conflicts with").
//
// Two containers exist on purpose. Store is the per-unit, append-only error
// store owned by a single declaration's link record; it supports Truncate for
// checkpoint rollback and Take/IsUntouched for the detach/reattach protocol
// used during analysis. Bag aggregates diagnostics from many units for
// rendering, with a cap, deterministic sorting, and deduplication.
//
// The package performs no formatting or IO; rendering lives in
// internal/diagfmt.
package diag

// Package store persists the pipeline's three append-mostly record types:
// transcripts (immutable), edit recipes (versioned per deliverable, never
// mutated after creation), and renders (status-mutable audit rows). It also
// owns the render status state machine and the atomic per-deliverable
// version assignment for recipes.
package store

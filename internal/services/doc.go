// Package services defines shared utilities consumed by the pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation and deliverable identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the stable error kinds reported at the pipeline boundary.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform across components.
package services

// Package diag defines the diagnostic model shared by the fixture loader,
// the inference engine and the poly-expression resolver.
//
// Producers never return resolution failures as errors: an unresolvable
// call or a lambda without a functional target is recorded here against
// the offending node and the checker keeps going with a best-effort type.
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the node the finding is attached to.
//   - Notes – optional secondary spans/messages.
//
// Reporter decouples producers from storage. BagReporter collects into a
// bounded Bag, DedupReporter drops repeated findings.
package diag

// Package writers turns step records into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSON, JSONL).
//   - The simulation stays domain-only; the app only wires channels.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers

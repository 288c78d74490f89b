// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"abesim/internal/jsonlutil"
	"abesim/pkg/api"
)

func init() { Register("jsonl", newJSONL) }

// JSONL: one StepV1 per line, then one SummaryV1 line. Consumers switch on
// the "kind" field.
func newJSONL() Format {
	return Format{
		Start: func(out io.Writer, _ bool, bufSize int) (chan<- api.StepV1, <-chan error) {
			return StartStepJSONLWriter(out, bufSize)
		},
		Summary: func(w io.Writer, s api.SummaryV1) error {
			return json.NewEncoder(w).Encode(s)
		},
	}
}

// StartStepJSONLWriter streams each step as one JSON line (v1).
func StartStepJSONLWriter(out io.Writer, bufSize int) (chan<- api.StepV1, <-chan error) {
	return jsonlutil.Start[api.StepV1](out, bufSize,
		func(enc *json.Encoder, s api.StepV1) error { return enc.Encode(s) },
		IsBrokenPipe,
	)
}

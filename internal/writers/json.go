// internal/writers/json.go
package writers

import (
	"io"

	"abesim/internal/jsonutil"
	"abesim/pkg/api"
)

func init() { Register("json", newJSON) }

// JSON: the steps are buffered and written with the summary as one
// pretty-printed RunV1 document.
func newJSON() Format {
	var steps []api.StepV1
	return Format{
		Start: func(_ io.Writer, _ bool, bufSize int) (chan<- api.StepV1, <-chan error) {
			in := make(chan api.StepV1, max(bufSize, 1))
			done := make(chan error, 1)
			go func() {
				for s := range in {
					steps = append(steps, s)
				}
				done <- nil
			}()
			return in, done
		},
		Summary: func(w io.Writer, s api.SummaryV1) error {
			if steps == nil {
				steps = []api.StepV1{}
			}
			return jsonutil.EncodePretty(w, api.RunV1{Summary: s, Steps: steps})
		},
	}
}

// internal/writers/text.go
package writers

import (
	"fmt"
	"io"

	"abesim/internal/output"
	"abesim/pkg/api"
)

func init() { Register("text", newText) }

// Text: TSV step rows (optional header) followed by "# key: value" summary
// lines.
func newText() Format {
	return Format{
		Start: func(out io.Writer, header bool, bufSize int) (chan<- api.StepV1, <-chan error) {
			in := make(chan api.StepV1, max(bufSize, 1))
			done := make(chan error, 1)
			go func() {
				var err error
				if header {
					_, err = fmt.Fprintln(out, output.StepHeader)
				}
				for s := range in {
					if err != nil {
						continue // drain so senders never block
					}
					_, err = fmt.Fprintln(out, output.FormatStepRowTSV(s))
				}
				done <- err
			}()
			return in, done
		},
		Summary: output.WriteSummaryText,
	}
}

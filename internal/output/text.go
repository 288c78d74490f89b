// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"time"

	"abesim/pkg/api"
)

// StepHeader is the TSV header for step rows.
const StepHeader = "step\twindow_start\twindow_end\tsusceptible\texposed\tinfectious\trecovered\texposures\ttransitions"

// FormatStepRowTSV returns one TSV row (no trailing newline).
func FormatStepRowTSV(s api.StepV1) string {
	return fmt.Sprintf("%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d",
		s.Step,
		s.WindowStart.UTC().Format(time.RFC3339), s.WindowEnd.UTC().Format(time.RFC3339),
		s.Counts.Susceptible, s.Counts.Exposed, s.Counts.Infectious, s.Counts.Recovered,
		s.Exposures, s.Transitions,
	)
}

// WriteSummaryText prints the run summary as "# key: value" lines so the
// output stays parseable as TSV with comments.
func WriteSummaryText(w io.Writer, s api.SummaryV1) error {
	lines := []struct {
		k string
		v any
	}{
		{"run_id", s.RunID},
		{"seed", s.Seed},
		{"workers", s.Workers},
		{"agents", s.Agents},
		{"locations", s.Locations},
		{"steps", s.Steps},
		{"end_time", s.EndTime.UTC().Format(time.RFC3339)},
		{"susceptible", s.Counts.Susceptible},
		{"exposed", s.Counts.Exposed},
		{"infectious", s.Counts.Infectious},
		{"recovered", s.Counts.Recovered},
		{"exposures", s.Exposures},
		{"transitions", s.Transitions},
	}
	for _, l := range lines {
		if l.k == "run_id" && s.RunID == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "# %s: %v\n", l.k, l.v); err != nil {
			return err
		}
	}
	if s.InvalidInputs > 0 {
		if _, err := fmt.Fprintf(w, "# invalid_inputs: %d\n", s.InvalidInputs); err != nil {
			return err
		}
	}
	return nil
}

package transmission

import (
	"math"
	"time"

	"abesim/internal/epi"
)

// Dose sums interval_minutes * risk(d) * infectivity * symptom * location *
// susceptibility over the used scans of e. A negative duration, a NaN or
// negative distance, or a NaN or negative factor makes the whole exposure
// invalid: it contributes zero and an ErrInvalidInput is returned.
func Dose(e epi.Exposure, risk RiskAtDistance, interval time.Duration) (float64, error) {
	if e.Duration < 0 {
		return 0, epi.Errorf(epi.ErrInvalidInput, "negative duration %v", e.Duration)
	}
	factors := [...]float32{e.Infectivity, e.SymptomFactor, e.LocationTransmissibility, e.Susceptibility}
	for _, f := range factors {
		if badFloat(f) {
			return 0, epi.Errorf(epi.ErrInvalidInput, "bad factor %v", f)
		}
	}
	scale := interval.Minutes() *
		float64(e.Infectivity) * float64(e.SymptomFactor) *
		float64(e.LocationTransmissibility) * float64(e.Susceptibility)

	var sum float64
	for i, d := range e.ProximityTrace {
		if d == epi.NoProximity || math.IsInf(float64(d), 1) {
			continue
		}
		if badFloat(d) {
			return 0, epi.Errorf(epi.ErrInvalidInput, "bad distance %v at scan %d", d, i)
		}
		if scale == 0 {
			continue
		}
		sum += scale * float64(risk(d))
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) || sum < 0 {
		return 0, epi.Errorf(epi.ErrInvalidInput, "dose evaluated to %v", sum)
	}
	return sum, nil
}

func badFloat(f float32) bool {
	v := float64(f)
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

package exposure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"abesim/internal/epi"
)

// defaultTraces is a small non-parametric sample of observed proximity
// traces (meters, one entry per scan).
var defaultTraces = [][]float32{
	{9.06893969},
	{2.17069263, 1.34896927, 1.25818902},
	{0.82138789, 6.22004292},
	{2.05025381},
	{3.24773771},
	{4.47790356},
	{8.76846823},
	{2.46735085, 1.18301727, 2.31253068, 0.6587179},
	{5.40369733, 5.72922553, 4.00336149},
	{3.90483315, 1.13448638, 1.52669001, 4.54364751, 0.00735043, 1.91172425,
		0.29878502, 1.03358558, 3.7044072, 1.87280156, 1.3717239, 2.72108035,
		0.81446531, 3.54814224, 1.90291171, 0.38753284, 1.42542508},
}

// DefaultTraceDistribution returns a deep copy of the built-in samples.
func DefaultTraceDistribution() [][]float32 {
	out := make([][]float32, len(defaultTraces))
	for i, s := range defaultTraces {
		out[i] = append([]float32(nil), s...)
	}
	return out
}

// LoadDistribution reads a JSON array of traces, e.g. [[1.2, 0.4], [3.0]].
func LoadDistribution(r io.Reader) ([][]float32, error) {
	var dist [][]float32
	if err := json.NewDecoder(r).Decode(&dist); err != nil {
		return nil, epi.Errorf(epi.ErrConfig, "decode trace distribution: %v", err)
	}
	if len(dist) == 0 {
		return nil, epi.Errorf(epi.ErrConfig, "proximity trace distribution cannot be empty")
	}
	return dist, nil
}

// LoadDistributionFile opens path and calls LoadDistribution.
func LoadDistributionFile(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace distribution: %w", err)
	}
	defer f.Close()
	dist, err := LoadDistribution(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dist, nil
}

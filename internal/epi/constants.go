package epi

import (
	"math"
	"time"
)

// MaxTraceLength caps the number of proximity scans in one Exposure. Longer
// contacts are represented by several exposures.
const MaxTraceLength = 20

// MaxDaysAfterInfection is the number of days after onset during which a
// host is still infectious.
const MaxDaysAfterInfection = 14

// ProximityTraceInterval is the default spacing between proximity scans.
const ProximityTraceInterval = 5 * time.Minute

// NoProximity marks an unused trace slot.
const NoProximity float32 = math.MaxFloat32

// infectivityByDay maps whole days since onset to an infectivity factor
// (Gamma CDF derived). The last entry is zero.
var infectivityByDay = [MaxDaysAfterInfection + 1]float32{
	0.9706490058950823, 1.7351078930710577, 1.2019044766404108,
	0.6227475415319733, 0.2804915619270876, 0.1163222813140352,
	0.04568182435881363, 0.017259874839000156, 0.006335824965724157,
	0.002274361283270409, 0.0008019921659041529, 0.00027871327592632333,
	0.0000956941785834608, 0.0000325214311858168, 0,
}

// Infectivity returns the infectivity factor for a host that became
// infectious days ago. Out-of-range days yield zero.
func Infectivity(days int) float32 {
	if days < 0 || days > MaxDaysAfterInfection {
		return 0
	}
	return infectivityByDay[days]
}

// InfectivityTable returns a copy of the decay table.
func InfectivityTable() [MaxDaysAfterInfection + 1]float32 { return infectivityByDay }

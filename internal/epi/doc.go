// Package epi holds the value contracts shared by every stage of the
// stepping engine: health states, visits, exposures, transitions, the
// process-wide constants and the error taxonomy.
//
// It imports nothing from the rest of the module. Values defined here are
// passed by copy; an Exposure is never mutated once a Location hands it out.
package epi

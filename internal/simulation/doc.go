// Package simulation advances a population of agents and locations through
// fixed-size time steps.
//
// Every step runs the same phases in order:
//
//	visit       agents emit visits, routed to the partition owning the location
//	pairing     locations pair visitors and emit exposure deliveries
//	transition  agents plan their health transitions from the deliveries
//	commit      plans are applied, only after every plan of the step succeeded
//	observe     observers see the committed state
//
// Serial and parallel drivers share this code. The parallel driver runs each
// phase with one goroutine per partition and the end of a phase is a barrier.
// Randomness lives in the agents and locations themselves, so outcomes do not
// depend on the number of workers.
package simulation

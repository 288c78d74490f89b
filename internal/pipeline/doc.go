// Package pipeline runs one phase of a simulation step across worker
// partitions and returns only when every partition has finished: the return
// of RunPhase is the phase barrier.
//
// Data crosses partitions only through a Mailbox, which each source
// partition fills without locks and each destination drains after the
// barrier.
package pipeline

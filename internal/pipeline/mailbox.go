package pipeline

// Mailbox moves values between k partitions. Source partition s may only
// call Put(s, ·, ·); destination d may only call Drain(d), and only after the
// phase that filled the mailbox has finished.
type Mailbox[T any] struct {
	boxes [][][]T // [src][dst]
}

// NewMailbox returns a mailbox for k partitions.
func NewMailbox[T any](k int) *Mailbox[T] {
	if k < 1 {
		k = 1
	}
	m := &Mailbox[T]{boxes: make([][][]T, k)}
	for s := range m.boxes {
		m.boxes[s] = make([][]T, k)
	}
	return m
}

// Parts returns the number of partitions.
func (m *Mailbox[T]) Parts() int { return len(m.boxes) }

// Put appends v to the box from src to dst.
func (m *Mailbox[T]) Put(src, dst int, v T) {
	m.boxes[src][dst] = append(m.boxes[src][dst], v)
}

// Drain returns everything addressed to dst in source order and empties
// those boxes, keeping their capacity.
func (m *Mailbox[T]) Drain(dst int) []T {
	n := 0
	for s := range m.boxes {
		n += len(m.boxes[s][dst])
	}
	out := make([]T, 0, n)
	for s := range m.boxes {
		out = append(out, m.boxes[s][dst]...)
		clear(m.boxes[s][dst])
		m.boxes[s][dst] = m.boxes[s][dst][:0]
	}
	return out
}

// Pending counts undrained values.
func (m *Mailbox[T]) Pending() int {
	n := 0
	for s := range m.boxes {
		for d := range m.boxes[s] {
			n += len(m.boxes[s][d])
		}
	}
	return n
}

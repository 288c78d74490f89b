package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPartitionCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 5, 17, 100} {
		for _, k := range []int{1, 2, 3, 8, 150} {
			next := 0
			for p := 0; p < k; p++ {
				lo, hi := Partition(n, k, p)
				if lo != next || hi < lo {
					t.Fatalf("n=%d k=%d p=%d: [%d,%d) after %d", n, k, p, lo, hi, next)
				}
				for i := lo; i < hi; i++ {
					if o := Owner(n, k, i); o != p {
						t.Fatalf("n=%d k=%d: Owner(%d)=%d want %d", n, k, i, o, p)
					}
				}
				next = hi
			}
			if next != n {
				t.Fatalf("n=%d k=%d: covered %d", n, k, next)
			}
		}
	}
}

func TestRunPhaseWaitsForAllParts(t *testing.T) {
	var done atomic.Int32
	err := RunPhase(context.Background(), 8, func(ctx context.Context, p int) error {
		done.Add(1)
		return nil
	})
	if err != nil || done.Load() != 8 {
		t.Fatalf("err=%v done=%d", err, done.Load())
	}
}

func TestRunPhaseReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := RunPhase(context.Background(), 4, func(ctx context.Context, p int) error {
		if p == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestRunPhaseHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := RunPhase(ctx, 1, func(context.Context, int) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestMailboxDrainsInSourceOrder(t *testing.T) {
	m := NewMailbox[int](3)
	m.Put(2, 0, 20)
	m.Put(0, 0, 1)
	m.Put(1, 0, 10)
	m.Put(0, 0, 2)
	m.Put(1, 2, 99)
	got := m.Drain(0)
	want := []int{1, 2, 10, 20}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if m.Pending() != 1 {
		t.Errorf("pending %d want 1", m.Pending())
	}
	if again := m.Drain(0); len(again) != 0 {
		t.Errorf("second drain %v", again)
	}
}

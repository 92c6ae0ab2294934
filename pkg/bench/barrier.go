package bench

import (
	"sync"
)

// barrier is a reusable cyclic barrier. Await blocks until all
// parties have arrived, then releases every waiter and resets for the
// next cycle. One barrier value is shared by reference between all
// workers and the coordinator.
type barrier struct {
	mu      sync.Mutex
	cond    sync.Cond
	parties int
	waiting int
	cycle   uint64
}

func newBarrier(parties int) *barrier {
	b := &barrier{
		parties: parties,
	}
	b.cond.L = &b.mu

	return b
}

func (b *barrier) Await() {
	b.mu.Lock()
	defer b.mu.Unlock()

	cycle := b.cycle

	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.cycle++

		b.cond.Broadcast()

		return
	}

	for cycle == b.cycle {
		b.cond.Wait()
	}
}

// Package rolling keeps a fixed-size window of recent distance samples and
// averages it.
package rolling

import (
	"github.com/merliot/ranger"
)

// DefaultCapacity is the window size used by the sonar device
const DefaultCapacity = 20

// Buffer is a fixed-capacity FIFO of distances.  Once full, every Insert
// replaces the oldest sample.  A Buffer is not safe for concurrent use.
type Buffer struct {
	values []ranger.Distance
	start  int
	end    int
	count  int
}

// New returns an empty buffer holding at most capacity samples.  It panics
// if capacity is less than one.
func New(capacity int) *Buffer {
	if capacity < 1 {
		panic("rolling: capacity must be at least 1")
	}
	return &Buffer{values: make([]ranger.Distance, capacity)}
}

// Insert adds d as the newest sample, evicting the oldest if the buffer is
// full
func (b *Buffer) Insert(d ranger.Distance) {
	capacity := len(b.values)
	if b.count < capacity {
		b.values[b.end] = d
		b.end = (b.end + 1) % capacity
		b.count++
		return
	}
	b.values[b.start] = d
	b.start = (b.start + 1) % capacity
	b.end = (b.end + 1) % capacity
}

// Average returns the truncated mean of the samples, or 0 if there are none
func (b *Buffer) Average() ranger.Distance {
	if b.count == 0 {
		return 0
	}
	var sum uint64
	for i := 0; i < b.count; i++ {
		sum += uint64(b.values[(b.start+i)%len(b.values)])
	}
	return ranger.Distance(sum / uint64(b.count))
}

// Len returns the number of samples held
func (b *Buffer) Len() int { return b.count }

// Cap returns the buffer capacity
func (b *Buffer) Cap() int { return len(b.values) }

// Values returns a copy of the samples, oldest first
func (b *Buffer) Values() []ranger.Distance {
	out := make([]ranger.Distance, b.count)
	for i := range out {
		out[i] = b.values[(b.start+i)%len(b.values)]
	}
	return out
}

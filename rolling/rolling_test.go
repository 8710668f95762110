package rolling

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/merliot/ranger"
)

func TestEmptyAverage(t *testing.T) {
	c := qt.New(t)
	b := New(DefaultCapacity)
	c.Assert(b.Average(), qt.Equals, ranger.Distance(0))
	c.Assert(b.Len(), qt.Equals, 0)
	c.Assert(b.Values(), qt.HasLen, 0)
}

func TestAverage(t *testing.T) {
	c := qt.New(t)
	b := New(DefaultCapacity)
	for _, d := range []ranger.Distance{10, 20, 30} {
		b.Insert(d)
	}
	c.Assert(b.Average(), qt.Equals, ranger.Distance(20))
}

func TestAverageTruncates(t *testing.T) {
	c := qt.New(t)
	b := New(DefaultCapacity)
	b.Insert(10)
	b.Insert(21)
	c.Assert(b.Average(), qt.Equals, ranger.Distance(15))
}

func TestCountNeverExceedsCapacity(t *testing.T) {
	c := qt.New(t)
	b := New(5)
	for i := 0; i < 23; i++ {
		b.Insert(ranger.Distance(i))
		want := i + 1
		if want > 5 {
			want = 5
		}
		c.Assert(b.Len(), qt.Equals, want, qt.Commentf("after %d inserts", i+1))
	}
	c.Assert(b.Cap(), qt.Equals, 5)
}

func TestFIFO(t *testing.T) {
	c := qt.New(t)
	b := New(DefaultCapacity)
	for i := 1; i <= DefaultCapacity+1; i++ {
		b.Insert(ranger.Distance(i * 10))
	}
	want := make([]ranger.Distance, DefaultCapacity)
	for i := range want {
		want[i] = ranger.Distance((i + 2) * 10)
	}
	c.Assert(b.Values(), qt.DeepEquals, want)
}

func TestCapacityBoundary(t *testing.T) {
	c := qt.New(t)
	b := New(3)
	b.Insert(1)
	b.Insert(2)
	b.Insert(3)
	c.Assert(b.Len(), qt.Equals, 3)
	b.Insert(4)
	c.Assert(b.Len(), qt.Equals, 3)
	c.Assert(b.Values(), qt.DeepEquals, []ranger.Distance{2, 3, 4})
	c.Assert(b.Average(), qt.Equals, ranger.Distance(3))
}

func TestWrapAverage(t *testing.T) {
	c := qt.New(t)
	b := New(4)
	for _, d := range []ranger.Distance{100, 100, 100, 100, 0, 0} {
		b.Insert(d)
	}
	// window is [100 100 0 0]
	c.Assert(b.Average(), qt.Equals, ranger.Distance(50))
}

func TestLargeValues(t *testing.T) {
	c := qt.New(t)
	b := New(DefaultCapacity)
	for i := 0; i < DefaultCapacity; i++ {
		b.Insert(ranger.Distance(^uint32(0)))
	}
	c.Assert(b.Average(), qt.Equals, ranger.Distance(^uint32(0)))
}

func TestZeroCapacity(t *testing.T) {
	c := qt.New(t)
	c.Assert(func() { New(0) }, qt.PanicMatches, "rolling: capacity must be at least 1")
}

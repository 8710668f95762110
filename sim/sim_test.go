package sim

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/merliot/ranger"
)

func TestWalkBounds(t *testing.T) {
	c := qt.New(t)
	cfg := Config{Near: 20, Far: 60, Step: 10, Jitter: 0, Seed: 7}
	s := New(cfg)
	var got []ranger.Distance
	for i := 0; i < 10; i++ {
		d, err := s.Sample(context.Background())
		c.Assert(err, qt.IsNil)
		got = append(got, d)
	}
	c.Assert(got, qt.DeepEquals, []ranger.Distance{50, 40, 30, 20, 30, 40, 50, 60, 50, 40})
}

func TestJitterStaysNearTarget(t *testing.T) {
	c := qt.New(t)
	s := New(Config{Near: 0, Far: 100, Step: 1, Jitter: 5, Seed: 3})
	for i := 0; i < 500; i++ {
		d, err := s.Sample(context.Background())
		c.Assert(err, qt.IsNil)
		c.Assert(d <= 105, qt.IsTrue, qt.Commentf("sample %d = %d", i, d))
	}
}

func TestMisses(t *testing.T) {
	c := qt.New(t)
	s := New(Config{Near: 10, Far: 20, Step: 1, Miss: 1, Seed: 1})
	_, err := s.Sample(context.Background())
	c.Assert(errors.Is(err, ranger.ErrNoEcho), qt.IsTrue)
}

package hcsr04

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/merliot/ranger"
)

type fakePulser struct {
	width   time.Duration
	err     error
	timeout time.Duration
}

func (f *fakePulser) Pulse(timeout time.Duration) (time.Duration, error) {
	f.timeout = timeout
	return f.width, f.err
}

func TestCentimeters(t *testing.T) {
	c := qt.New(t)
	c.Assert(Centimeters(0), qt.Equals, ranger.Distance(0))
	c.Assert(Centimeters(-time.Microsecond), qt.Equals, ranger.Distance(0))
	// 580µs * 0.034 / 2 = 9.86
	c.Assert(Centimeters(580*time.Microsecond), qt.Equals, ranger.Distance(9))
	// 1176µs * 0.034 / 2 = 19.992
	c.Assert(Centimeters(1176*time.Microsecond), qt.Equals, ranger.Distance(19))
	// 5000µs * 0.034 / 2 = 85
	c.Assert(Centimeters(5000*time.Microsecond), qt.Equals, ranger.Distance(85))
	// sub-microsecond remainder is dropped before scaling
	c.Assert(Centimeters(580*time.Microsecond+999*time.Nanosecond), qt.Equals, ranger.Distance(9))
}

func TestSample(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{width: 5000 * time.Microsecond}
	s := New(p, 0)
	d, err := s.Sample(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(d, qt.Equals, ranger.Distance(85))
	c.Assert(p.timeout, qt.Equals, DefaultEchoTimeout)
}

func TestSampleNoEcho(t *testing.T) {
	c := qt.New(t)
	s := New(&fakePulser{err: ErrNoEcho}, 10*time.Millisecond)
	_, err := s.Sample(context.Background())
	c.Assert(err, qt.ErrorIs, ranger.ErrNoEcho)
}

func TestSampleCancelled(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{width: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(p, 0).Sample(ctx)
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(p.timeout, qt.Equals, time.Duration(0))
}

func TestMeasure(t *testing.T) {
	c := qt.New(t)
	var fallGot time.Duration
	rise := func(d time.Duration) bool {
		time.Sleep(10 * time.Millisecond)
		return true
	}
	fall := func(d time.Duration) bool {
		fallGot = d
		time.Sleep(time.Millisecond)
		return true
	}
	width, err := measure(38*time.Millisecond, rise, fall)
	c.Assert(err, qt.IsNil)
	c.Assert(width >= time.Millisecond, qt.IsTrue)
	// the falling edge only gets what the rising edge left over
	c.Assert(fallGot > 0, qt.IsTrue)
	c.Assert(fallGot <= 28*time.Millisecond, qt.IsTrue, qt.Commentf("fall waited up to %s", fallGot))
}

func TestMeasureNoEcho(t *testing.T) {
	c := qt.New(t)
	never := func(time.Duration) bool { return false }
	always := func(time.Duration) bool { return true }

	_, err := measure(time.Millisecond, never, always)
	c.Assert(err, qt.ErrorIs, ErrNoEcho)

	_, err = measure(time.Millisecond, always, never)
	c.Assert(err, qt.ErrorIs, ErrNoEcho)

	// a rising edge that uses the whole timeout leaves nothing to wait on
	called := false
	late := func(d time.Duration) bool { time.Sleep(d + time.Millisecond); return true }
	_, err = measure(2*time.Millisecond, late, func(time.Duration) bool { called = true; return true })
	c.Assert(err, qt.ErrorIs, ErrNoEcho)
	c.Assert(called, qt.IsFalse)
}

// Package hcsr04 samples an HC-SR04 ultrasonic ranging module.
//
// The module is triggered with a 10µs pulse and answers with an echo pulse
// whose width is the round-trip time of the sound burst.  Width is converted
// to centimeters as (µs * 0.034) / 2.
package hcsr04

import (
	"context"
	"time"

	"github.com/merliot/ranger"
)

const (
	// DefaultEchoTimeout is the module's own give-up time for an echo
	DefaultEchoTimeout = 38 * time.Millisecond

	triggerPulse = 10 * time.Microsecond

	// speed of sound in cm/µs; halved for the round trip in Centimeters
	cmPerMicrosecond = 0.034
)

// ErrNoEcho is returned when the echo line does not rise and fall in time
var ErrNoEcho = ranger.ErrNoEcho

// Pulser drives the trigger line and times the echo line
type Pulser interface {
	// Pulse fires a trigger pulse and returns how long echo stayed high.
	// timeout bounds the whole echo, from the end of the trigger pulse to
	// the falling edge, so it caps the range the same way on every board.
	// It returns ErrNoEcho if echo does not complete within timeout.
	Pulse(timeout time.Duration) (time.Duration, error)
}

// measure times one echo.  rise and fall each wait at most the duration
// given for their edge and report whether it came.  Both waits share
// timeout.
func measure(timeout time.Duration, rise, fall func(time.Duration) bool) (time.Duration, error) {
	deadline := time.Now().Add(timeout)
	if !rise(timeout) {
		return 0, ErrNoEcho
	}
	start := time.Now()
	left := time.Until(deadline)
	if left <= 0 || !fall(left) {
		return 0, ErrNoEcho
	}
	return time.Since(start), nil
}

// Sensor is a ranger.Sampler over a Pulser
type Sensor struct {
	pulser  Pulser
	timeout time.Duration
}

func New(pulser Pulser, timeout time.Duration) *Sensor {
	if timeout <= 0 {
		timeout = DefaultEchoTimeout
	}
	return &Sensor{pulser: pulser, timeout: timeout}
}

func (s *Sensor) Sample(ctx context.Context) (ranger.Distance, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	width, err := s.pulser.Pulse(s.timeout)
	if err != nil {
		return 0, err
	}
	return Centimeters(width), nil
}

// Centimeters converts an echo width to a distance, truncating
func Centimeters(width time.Duration) ranger.Distance {
	us := width.Microseconds()
	if us <= 0 {
		return 0
	}
	return ranger.Distance(float64(us) * cmPerMicrosecond / 2)
}

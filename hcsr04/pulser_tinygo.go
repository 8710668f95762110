//go:build tinygo

package hcsr04

import (
	"machine"
	"time"
)

// GPIO busy-waits on the echo pin
type GPIO struct {
	trigger machine.Pin
	echo    machine.Pin
}

func NewGPIO(trigger, echo machine.Pin) *GPIO {
	trigger.Configure(machine.PinConfig{Mode: machine.PinOutput})
	echo.Configure(machine.PinConfig{Mode: machine.PinInput})
	trigger.Low()
	return &GPIO{trigger: trigger, echo: echo}
}

func (g *GPIO) Pulse(timeout time.Duration) (time.Duration, error) {
	g.trigger.High()
	time.Sleep(triggerPulse)
	g.trigger.Low()

	return measure(timeout, g.waitFor(true), g.waitFor(false))
}

// waitFor busy-waits for echo to reach level
func (g *GPIO) waitFor(level bool) func(time.Duration) bool {
	return func(d time.Duration) bool {
		deadline := time.Now().Add(d)
		for g.echo.Get() != level {
			if time.Now().After(deadline) {
				return false
			}
		}
		return true
	}
}

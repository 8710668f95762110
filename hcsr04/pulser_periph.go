//go:build !tinygo

package hcsr04

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// GPIO times the echo with periph.io edge detection.  Pin names are in the
// form gpioreg.ByName expects; on a Raspberry Pi, the BCM number.
type GPIO struct {
	trigger gpio.PinIO
	echo    gpio.PinIO
}

func NewGPIO(trigger, echo string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hcsr04: host init: %w", err)
	}
	var g GPIO
	if g.trigger = gpioreg.ByName(trigger); g.trigger == nil {
		return nil, fmt.Errorf("hcsr04: no GPIO trigger pin named %q", trigger)
	}
	if g.echo = gpioreg.ByName(echo); g.echo == nil {
		return nil, fmt.Errorf("hcsr04: no GPIO echo pin named %q", echo)
	}
	if err := g.trigger.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("hcsr04: trigger %s: %w", trigger, err)
	}
	if err := g.echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("hcsr04: echo %s: %w", echo, err)
	}
	return &g, nil
}

func (g *GPIO) Pulse(timeout time.Duration) (time.Duration, error) {
	if err := g.echo.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return 0, err
	}

	if err := g.trigger.Out(gpio.High); err != nil {
		return 0, err
	}
	time.Sleep(triggerPulse)
	if err := g.trigger.Out(gpio.Low); err != nil {
		return 0, err
	}

	return measure(timeout, g.echo.WaitForEdge, g.waitFall)
}

func (g *GPIO) waitFall(d time.Duration) bool {
	if err := g.echo.In(gpio.PullDown, gpio.FallingEdge); err != nil {
		fmt.Printf("hcsr04: echo falling edge: %s\r\n", err)
		return false
	}
	return g.echo.WaitForEdge(d)
}

//go:build !tinygo

package led

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Pin is an LED on a host GPIO line
type Pin struct {
	pin gpio.PinIO
}

func NewPin(name string) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led: host init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("led: no GPIO pin named %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("led: %s: %w", name, err)
	}
	return &Pin{pin: pin}, nil
}

func (p *Pin) Set(on bool) error {
	return p.pin.Out(gpio.Level(on))
}

//go:build tinygo

package led

import "machine"

// Pin is an LED on a board pin
type Pin struct {
	pin machine.Pin
}

func NewPin(pin machine.Pin) *Pin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &Pin{pin: pin}
}

func (p *Pin) Set(on bool) error {
	p.pin.Set(on)
	return nil
}

// Package led provides actuator outputs
package led

import (
	"fmt"
	"io"
	"os"
)

// Console prints state changes instead of driving a pin.  Output goes to W,
// or stdout if W is nil.
type Console struct {
	Name string
	W    io.Writer
	on   bool
}

func (c *Console) Set(on bool) error {
	if on == c.on {
		return nil
	}
	c.on = on
	state := "OFF"
	if on {
		state = "ON"
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "LED %s %s\r\n", c.Name, state)
	return nil
}

// On reports the last state set
func (c *Console) On() bool { return c.on }

// Package maxbotix samples a MaxBotix-style serial rangefinder.
//
// The sensor streams ASCII frames "R" + digits + "\r" at 9600 8N1.  The
// digits are centimeters on XL models and millimeters on HRXL models.
package maxbotix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.bug.st/serial"

	"github.com/merliot/ranger"
)

type Units int

const (
	Centimeters Units = iota
	Millimeters
)

const (
	maxFrame    = 8
	readTimeout = 10 * time.Millisecond
	DefaultWait = 200 * time.Millisecond
	DefaultBaud = 9600
)

// ErrFrame is returned for a frame that is not "R<digits>"
var ErrFrame = errors.New("maxbotix: bad frame")

// Sensor is a ranger.Sampler reading frames from r
type Sensor struct {
	r     io.Reader
	units Units
	wait  time.Duration
}

// Open opens the serial port name at 9600 8N1
func Open(name string, units Units, wait time.Duration) (*Sensor, io.Closer, error) {
	mode := &serial.Mode{
		BaudRate: DefaultBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("maxbotix: open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("maxbotix: %s read timeout: %w", name, err)
	}
	return New(port, units, wait), port, nil
}

// New reads frames from r.  wait bounds how long Sample looks for a
// complete frame.
func New(r io.Reader, units Units, wait time.Duration) *Sensor {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Sensor{r: r, units: units, wait: wait}
}

type inputResetter interface {
	ResetInputBuffer() error
}

// Sample returns the next complete frame.  Stale input is dropped first when
// the reader supports it.  No complete frame within the wait is ErrNoEcho.
func (s *Sensor) Sample(ctx context.Context) (ranger.Distance, error) {
	if rr, ok := s.r.(inputResetter); ok {
		if err := rr.ResetInputBuffer(); err != nil {
			return 0, fmt.Errorf("maxbotix: reset input: %w", err)
		}
	}

	deadline := time.Now().Add(s.wait)
	var frame []byte
	var synced bool
	var b [1]byte

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if time.Now().After(deadline) {
			return 0, ranger.ErrNoEcho
		}
		n, err := s.r.Read(b[:])
		if n == 1 {
			switch {
			case b[0] == 'R':
				frame, synced = frame[:0], true
			case b[0] == '\r' && synced:
				return ParseFrame(frame, s.units)
			case synced:
				frame = append(frame, b[0])
				if len(frame) > maxFrame {
					frame, synced = frame[:0], false
				}
			}
		}
		if err == io.EOF {
			return 0, ranger.ErrNoEcho
		}
		if err != nil {
			return 0, fmt.Errorf("maxbotix: read: %w", err)
		}
	}
}

// ParseFrame converts the digits between 'R' and '\r' to a distance
func ParseFrame(digits []byte, units Units) (ranger.Distance, error) {
	if len(digits) == 0 {
		return 0, ErrFrame
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrFrame, digits)
		}
	}
	v, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrFrame, err)
	}
	if units == Millimeters {
		v /= 10
	}
	return ranger.Distance(v), nil
}

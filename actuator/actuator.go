// Package actuator blinks a binary output when a smoothed distance drops
// below a threshold.
package actuator

import (
	"fmt"
	"time"

	"github.com/merliot/ranger"
)

const (
	DefaultThresholdCm ranger.Distance = 50
	DefaultBlinkCount                  = 3
	DefaultBlinkOn                     = 200 * time.Millisecond
	DefaultBlinkOff                    = 200 * time.Millisecond
)

// Config is fixed for the life of an Actuator
type Config struct {
	ThresholdCm ranger.Distance
	BlinkCount  int
	OnTime      time.Duration
	OffTime     time.Duration
}

func DefaultConfig() Config {
	return Config{
		ThresholdCm: DefaultThresholdCm,
		BlinkCount:  DefaultBlinkCount,
		OnTime:      DefaultBlinkOn,
		OffTime:     DefaultBlinkOff,
	}
}

// Output drives one binary line, an LED for instance
type Output interface {
	Set(on bool) error
}

type Actuator struct {
	cfg   Config
	out   Output
	sleep func(time.Duration)
}

func New(cfg Config, out Output) *Actuator {
	return &Actuator{cfg: cfg, out: out, sleep: time.Sleep}
}

func (a *Actuator) Config() Config { return a.cfg }

// EvaluateAndAct blinks the output BlinkCount times if avg is strictly below
// the threshold, blocking for the whole sequence.  It reports whether the
// output was blinked.
func (a *Actuator) EvaluateAndAct(avg ranger.Distance) bool {
	if avg >= a.cfg.ThresholdCm {
		return false
	}
	fmt.Printf("Threshold reached (%d < %d cm): blinking %d times\r\n",
		avg, a.cfg.ThresholdCm, a.cfg.BlinkCount)
	for i := 0; i < a.cfg.BlinkCount; i++ {
		a.set(true)
		a.sleep(a.cfg.OnTime)
		a.set(false)
		a.sleep(a.cfg.OffTime)
	}
	return true
}

func (a *Actuator) set(on bool) {
	if err := a.out.Set(on); err != nil {
		fmt.Printf("Output set %t: %s\r\n", on, err)
	}
}

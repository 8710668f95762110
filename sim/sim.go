// Package sim is a ranger.Sampler for running without hardware.  It walks a
// target back and forth between Near and Far, with jitter and the odd
// missed echo.
package sim

import (
	"context"
	"math/rand"

	"github.com/merliot/ranger"
)

type Config struct {
	Near   ranger.Distance
	Far    ranger.Distance
	Step   ranger.Distance
	Jitter ranger.Distance
	// Probability of a missed echo, 0..1
	Miss float64
	Seed int64
}

func DefaultConfig() Config {
	return Config{Near: 10, Far: 150, Step: 5, Jitter: 3, Miss: 0.02, Seed: 1}
}

type Sensor struct {
	cfg      Config
	rnd      *rand.Rand
	pos      ranger.Distance
	incoming bool
}

func New(cfg Config) *Sensor {
	if cfg.Far < cfg.Near {
		cfg.Near, cfg.Far = cfg.Far, cfg.Near
	}
	if cfg.Step == 0 {
		cfg.Step = 1
	}
	return &Sensor{
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(cfg.Seed)),
		pos:      cfg.Far,
		incoming: true,
	}
}

func (s *Sensor) Sample(ctx context.Context) (ranger.Distance, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.move()
	if s.cfg.Miss > 0 && s.rnd.Float64() < s.cfg.Miss {
		return 0, ranger.ErrNoEcho
	}
	d := s.pos
	if s.cfg.Jitter > 0 {
		j := ranger.Distance(s.rnd.Intn(int(2*s.cfg.Jitter) + 1))
		d += j
		if d < s.cfg.Jitter {
			d = 0
		} else {
			d -= s.cfg.Jitter
		}
	}
	return d, nil
}

func (s *Sensor) move() {
	if s.incoming {
		if s.pos <= s.cfg.Near+s.cfg.Step {
			s.pos, s.incoming = s.cfg.Near, false
			return
		}
		s.pos -= s.cfg.Step
		return
	}
	if s.pos+s.cfg.Step >= s.cfg.Far {
		s.pos, s.incoming = s.cfg.Far, true
		return
	}
	s.pos += s.cfg.Step
}

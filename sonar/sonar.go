// Package sonar is a ranging device.  Each iteration it takes one sample,
// smooths it over a rolling window, blinks an LED if the smoothed distance is
// under threshold, and reports the smoothed distance.
package sonar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merliot/ranger"
	"github.com/merliot/ranger/actuator"
	"github.com/merliot/ranger/rolling"
)

type Sonar struct {
	ranger.Thing
	ranger.ThingMsg
	Raw         ranger.Distance
	Average     ranger.Distance
	Samples     int
	Capacity    int
	ThresholdCm ranger.Distance
	Actuations  uint
	NoEchoes    uint
	SampleFails uint
	ReportFails uint
	Updated     time.Time

	cfg      Config
	sampler  ranger.Sampler
	buffer   *rolling.Buffer
	actuator *actuator.Actuator
	reporter ranger.Reporter
	metrics  *metrics
	sleep    func(time.Duration)
}

// Result is the outcome of one iteration
type Result struct {
	Raw       ranger.Distance
	SampleErr error
	Average   ranger.Distance
	Fired     bool
	ReportErr error
}

// New panics on an invalid id, model or name, or a config that fails
// Validate.
func New(id, model, name string, cfg Config, sampler ranger.Sampler,
	led actuator.Output, reporter ranger.Reporter) *Sonar {

	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	return &Sonar{
		Thing:       ranger.NewThing(id, model, name),
		Capacity:    cfg.Capacity,
		ThresholdCm: cfg.ThresholdCm,
		cfg:         cfg,
		sampler:     sampler,
		buffer:      rolling.New(cfg.Capacity),
		actuator:    actuator.New(cfg.Actuator(), led),
		reporter:    reporter,
		metrics:     newMetrics(),
		sleep:       time.Sleep,
	}
}

func (s *Sonar) getState(pkt *ranger.Packet) {
	s.Lock()
	s.Path = "state"
	pkt.Marshal(s)
	s.Unlock()
	pkt.Reply()
}

// update packets from the device are relayed to every viewer.  Updates
// arriving from a socket are dropped; only the device reports readings.
func (s *Sonar) update(pkt *ranger.Packet) {
	if !pkt.Injected() {
		fmt.Printf("Dropping update from remote socket\r\n")
		return
	}
	pkt.Broadcast()
}

func (s *Sonar) Subscribers() ranger.Subscribers {
	return ranger.Subscribers{
		"get/state": s.getState,
		"attached":  s.getState,
		"update":    s.update,
	}
}

// Run iterates until ctx is done.  Cancellation is checked between
// iterations only; an iteration in progress always completes.
func (s *Sonar) Run(ctx context.Context, i *ranger.Injector) {
	fmt.Printf("Sonar %s running: window %d, threshold %d cm\r\n",
		s, s.cfg.Capacity, s.cfg.ThresholdCm)
	for ctx.Err() == nil {
		s.Step(context.WithoutCancel(ctx), i)
		s.sleep(s.cfg.LoopDelay)
	}
}

// Step runs one iteration: sample, insert, average, act, report.  A sample
// that fails is not inserted; the existing window is still averaged, acted on
// and reported.  If i is not nil the new state is injected as an update
// packet.
func (s *Sonar) Step(ctx context.Context, i *ranger.Injector) Result {
	var res Result

	s.sleep(s.cfg.SampleDelay)
	res.Raw, res.SampleErr = s.sampler.Sample(ctx)
	switch {
	case res.SampleErr == nil:
		s.buffer.Insert(res.Raw)
		s.metrics.sampled("ok")
	case errors.Is(res.SampleErr, ranger.ErrNoEcho):
		fmt.Printf("No echo, sample dropped\r\n")
		s.metrics.sampled("no_echo")
	default:
		fmt.Printf("Sample error: %s\r\n", res.SampleErr)
		s.metrics.sampled("error")
	}

	res.Average = s.buffer.Average()
	fmt.Printf("Current Distance: %d cm, Average Distance: %d cm\r\n", res.Raw, res.Average)

	res.Fired = s.actuator.EvaluateAndAct(res.Average)
	if res.Fired {
		s.metrics.actuated()
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.ReportTimeout)
	res.ReportErr = s.reporter.Report(rctx, res.Average)
	cancel()
	if res.ReportErr != nil {
		fmt.Printf("Report error: %s\r\n", res.ReportErr)
	}
	s.metrics.reported(res.ReportErr)
	s.metrics.distances(res.Raw, res.Average, res.SampleErr == nil)

	s.record(res)

	if i != nil {
		var pkt ranger.Packet
		s.Lock()
		s.Path = "update"
		pkt.Marshal(s)
		s.Unlock()
		i.Inject(&pkt)
	}

	return res
}

func (s *Sonar) record(res Result) {
	s.Lock()
	defer s.Unlock()
	switch {
	case res.SampleErr == nil:
		s.Raw = res.Raw
	case errors.Is(res.SampleErr, ranger.ErrNoEcho):
		s.NoEchoes++
	default:
		s.SampleFails++
	}
	s.Average = res.Average
	s.Samples = s.buffer.Len()
	if res.Fired {
		s.Actuations++
	}
	if res.ReportErr != nil {
		s.ReportFails++
	}
	s.Updated = time.Now()
}

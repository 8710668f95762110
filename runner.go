package ranger

import "context"

// Runner runs a thing without an HTTP server, for boards that only push
// packets out (TinyGo targets).
type Runner struct {
	thinger  Thinger
	bus      *Bus
	injector *Injector
}

func NewRunner(thinger Thinger) *Runner {
	var r Runner

	r.thinger = thinger

	r.bus = NewBus("runner bus", nil, nil)
	r.bus.Subscribe(thinger.Subscribers())
	r.injector = NewInjector("runner injector", r.bus)

	return &r
}

// DialWebSocket keeps a websocket connection to a hub at url open in the
// background, announcing the thing on each new connection.
func (r *Runner) DialWebSocket(ctx context.Context, user, passwd, url string) error {
	return dialHub(ctx, r.bus, user, passwd, url, r.thinger.Announce())
}

// Run blocks until ctx is done
func (r *Runner) Run(ctx context.Context) {
	r.thinger.SetFlag(ThingFlagMetal)
	r.thinger.Run(ctx, r.injector)
}

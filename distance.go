package ranger

import (
	"context"
	"errors"
)

// Distance is a range measurement in whole centimeters
type Distance uint32

// ErrNoEcho is returned by a Sampler when the ranging hardware produced no
// usable echo before its timeout.  A no-echo sample carries no distance and
// must not be mixed into a smoothed window.
var ErrNoEcho = errors.New("no echo")

// Sampler produces one raw distance measurement per call.  Sample blocks for
// at most the sensor's maximum echo wait.
type Sampler interface {
	Sample(ctx context.Context) (Distance, error)
}

// Reporter delivers a smoothed distance to a remote service
type Reporter interface {
	Report(ctx context.Context, d Distance) error
}

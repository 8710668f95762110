// Package report delivers smoothed distances to remote services
package report

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/merliot/ranger"
)

// Reading is the payload every reporter sends
type Reading struct {
	DistanceCm ranger.Distance `json:"distance_cm"`
}

func encode(d ranger.Distance) []byte {
	// Reading always marshals
	payload, _ := json.Marshal(Reading{DistanceCm: d})
	return payload
}

// Multi reports to each reporter in turn.  A failing reporter does not stop
// the others; all errors are returned joined.
type Multi []ranger.Reporter

func (m Multi) Report(ctx context.Context, d ranger.Distance) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a reporter that drops every reading
type Discard struct{}

func (Discard) Report(context.Context, ranger.Distance) error { return nil }

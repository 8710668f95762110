//go:build tinygo

package sonar

import (
	"net/http"

	"github.com/merliot/ranger"
)

type metrics struct{}

func newMetrics() *metrics { return &metrics{} }

func (m *metrics) sampled(string)                         {}
func (m *metrics) actuated()                              {}
func (m *metrics) reported(error)                         {}
func (m *metrics) distances(_, _ ranger.Distance, _ bool) {}

func (s *Sonar) MetricsHandler() http.Handler { return http.NotFoundHandler() }

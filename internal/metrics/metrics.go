// Package metrics exposes Prometheus counters for caption traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Save outcomes.
const (
	SaveStored    = "stored"
	SaveDenied    = "denied"
	SaveFailed    = "failed"
	SaveThrottled = "throttled"
)

// Registry holds all caption metrics.
type Registry struct {
	reg *prometheus.Registry

	Saves   *prometheus.CounterVec
	Renders *prometheus.CounterVec
}

// New creates a registry with every metric registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "figcaption",
				Name:      "caption_saves_total",
				Help:      "Caption save attempts by outcome.",
			},
			[]string{"outcome"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "figcaption",
				Name:      "caption_renders_total",
				Help:      "Caption renders by mode and presence.",
			},
			[]string{"mode", "present"},
		),
	}
	r.reg.MustRegister(r.Saves, r.Renders)
	return r
}

// Save counts one save attempt with the given outcome. Safe on a nil Registry.
func (r *Registry) Save(outcome string) {
	if r == nil {
		return
	}
	r.Saves.WithLabelValues(outcome).Inc()
}

// Render counts one caption render. Safe on a nil Registry.
func (r *Registry) Render(mode string, present bool) {
	if r == nil {
		return
	}
	p := "false"
	if present {
		p = "true"
	}
	r.Renders.WithLabelValues(mode, p).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

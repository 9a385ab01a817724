package metrics

import (
	"net/http"
	"time"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records locomotion activity. Label values are bounded by the
// fixed state set; no per-body labels.
type Collector struct {
	transitions *prometheus.CounterVec
	landings    *prometheus.CounterVec
	jumps       prometheus.Counter
	dwell       *prometheus.HistogramVec
	tick        prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collector's metrics on reg. A nil reg uses a fresh
// private registry.
func New(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Collector{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stride_transitions_total",
			Help: "State transitions by source, target and reason",
		}, []string{"from", "to", "reason"}),
		landings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stride_landings_total",
			Help: "Landings by the state entered on touchdown",
		}, []string{"kind"}),
		jumps: f.NewCounter(prometheus.CounterOpts{
			Name: "stride_jumps_total",
			Help: "Jumps started",
		}),
		dwell: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stride_state_seconds",
			Help:    "Time spent in a state before leaving it",
			Buckets: []float64{0.02, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"state"}),
		tick: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stride_physics_tick_seconds",
			Help:    "Wall time spent in one physics tick",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
		gatherer: reg,
	}
}

func (c *Collector) OnTransition(ctx *locomotion.Context, t locomotion.Transition) {
	c.transitions.WithLabelValues(t.From.String(), t.To.String(), t.Reason.String()).Inc()
	if t.From != locomotion.StateNone {
		c.dwell.WithLabelValues(t.From.String()).Observe(t.Dwell)
	}
	if t.Reason == locomotion.ReasonForced {
		return
	}
	if locomotion.IsLanding(t) {
		c.landings.WithLabelValues(t.To.String()).Inc()
	}
	if t.To == locomotion.StateJumping {
		c.jumps.Inc()
	}
}

// RecordTick records the wall time of one physics tick.
func (c *Collector) RecordTick(d time.Duration) {
	c.tick.Observe(d.Seconds())
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

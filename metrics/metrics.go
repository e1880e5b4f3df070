// Package metrics counts resolutions served by the daemon's transports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// Metrics holds the counters on a private registry so tests can build as many
// as they like. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests    *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	awarded     prometheus.Counter
	lost        prometheus.Counter
	rerolls     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dominion_requests_total",
			Help: "Requests received, partitioned by transport and request type.",
		}, []string{"transport", "type"}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dominion_resolutions_total",
			Help: "Resolutions returned, partitioned by kind and result status.",
		}, []string{"kind", "status"}),
		awarded: f.NewCounter(prometheus.CounterOpts{
			Name: "dominion_credits_total",
			Help: "Credits awarded by resolved territory income.",
		}),
		lost: f.NewCounter(prometheus.CounterOpts{
			Name: "dominion_credits_lost_total",
			Help: "Credits deducted by territory income that resolved below zero.",
		}),
		rerolls: f.NewCounter(prometheus.CounterOpts{
			Name: "dominion_rerolls_total",
			Help: "Outcomes discarded by a reroll effect.",
		}),
	}
}

// Request counts one incoming request.
func (m *Metrics) Request(transport, msgType string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport, msgType).Inc()
}

// Observe counts a single resolution of kind.
func (m *Metrics) Observe(kind string, res model.Result) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(kind, string(res.Status)).Inc()
	m.rerolls.Add(float64(rerolls(res)))
}

// rerolls counts discarded outcomes across the whole cascade.
func rerolls(res model.Result) int {
	n := len(res.Rerolls)
	if res.Nested != nil {
		n += rerolls(*res.Nested)
	}
	for _, a := range res.Additional {
		n += rerolls(a)
	}
	return n
}

// ObserveBatch counts every entry of a territory batch. Income below zero is
// counted as lost credits since counters only go up.
func (m *Metrics) ObserveBatch(b rules.BatchResult) {
	if m == nil {
		return
	}
	for _, s := range b.Sections {
		for _, e := range s.Entries {
			m.resolutions.WithLabelValues(string(s.Category), string(e.Result.Status)).Inc()
			if s.Category != model.Income || e.Result.Status != model.StatusResolved {
				continue
			}
			switch c := e.Result.Credits; {
			case c > 0:
				m.awarded.Add(float64(c))
			case c < 0:
				m.lost.Add(float64(-c))
			}
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

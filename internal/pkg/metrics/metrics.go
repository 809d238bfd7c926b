package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dripn"

type Metrics struct {
	Credits     *prometheus.CounterVec
	Debits      prometheus.Counter
	Shares      *prometheus.CounterVec
	BadgeClaims *prometheus.CounterVec
	Redemptions *prometheus.CounterVec
	SyncErrors  prometheus.Counter
}

var (
	once    sync.Once
	current *Metrics
)

// Default registers the collectors on the default registry once per process.
func Default() *Metrics {
	once.Do(func() {
		current = New(prometheus.DefaultRegisterer)
	})
	return current
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Credits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "credited_points_total",
			Help:      "Points credited to the ledger, by source kind.",
		}, []string{"source"}),
		Debits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "debited_points_total",
			Help:      "Points debited from the ledger by cashouts.",
		}),
		Shares: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "share",
			Name:      "attempts_total",
			Help:      "Share attempts, by outcome.",
		}, []string{"outcome"}),
		BadgeClaims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "badge",
			Name:      "claims_total",
			Help:      "Badge reward claims, by badge.",
		}, []string{"badge"}),
		Redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redemption",
			Name:      "submissions_total",
			Help:      "Redemption submissions, by outcome.",
		}, []string{"outcome"}),
		SyncErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "errors_total",
			Help:      "Backend reconciliation pushes that failed and were dropped.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Credits, m.Debits, m.Shares, m.BadgeClaims, m.Redemptions, m.SyncErrors)
	}
	return m
}

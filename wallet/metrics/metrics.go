// Package metrics holds the Prometheus collectors for the wallet
// engine. A *Metrics is passed explicitly to every component that
// records; a nil receiver is a no-op so tests and one-shot CLI runs
// need no registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec

	transactionsTotal *prometheus.CounterVec
	airdropsTotal     *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_rpc_calls_total",
				Help: "Total number of chain RPC calls by chain, method and status",
			},
			[]string{"chain", "method", "status"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_rpc_call_duration_seconds",
				Help:    "Duration of chain RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"chain", "method"},
		),
		transactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_transactions_total",
				Help: "Total number of submitted transfers by chain and terminal status",
			},
			[]string{"chain", "status"},
		),
		airdropsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_airdrops_total",
				Help: "Total number of airdrop requests by chain and status",
			},
			[]string{"chain", "status"},
		),
	}
}

// RecordRPCCall records one chain RPC round trip.
func (m *Metrics) RecordRPCCall(chain, method, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.rpcCallsTotal.WithLabelValues(chain, method, status).Inc()
	m.rpcCallDuration.WithLabelValues(chain, method).Observe(durationSeconds)
}

// RecordTransaction records a transfer reaching a terminal status.
func (m *Metrics) RecordTransaction(chain, status string) {
	if m == nil {
		return
	}
	m.transactionsTotal.WithLabelValues(chain, status).Inc()
}

// RecordAirdrop records an airdrop request outcome.
func (m *Metrics) RecordAirdrop(chain, status string) {
	if m == nil {
		return
	}
	m.airdropsTotal.WithLabelValues(chain, status).Inc()
}

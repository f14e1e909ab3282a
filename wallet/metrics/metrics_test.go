package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	m.RecordRPCCall("solana", "GetBalance", "success", 0.05)
	m.RecordTransaction("ethereum", "confirmed")
	m.RecordAirdrop("solana", "success")

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "wallet_rpc_calls_total")
	assert.Contains(t, names, "wallet_rpc_call_duration_seconds")
	assert.Contains(t, names, "wallet_transactions_total")
	assert.Contains(t, names, "wallet_airdrops_total")
}

func TestNilMetrics_NoOp(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRPCCall("solana", "GetBalance", "error", 1.0)
		m.RecordTransaction("solana", "failed")
		m.RecordAirdrop("ethereum", "instructions")
	})
}

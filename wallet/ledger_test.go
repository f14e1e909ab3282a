package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAppendAndQuery(t *testing.T) {
	l := NewLedger()

	tx1 := NewTransaction(ChainEthereum, "addr-a", "addr-b", "1.5")
	tx1.Status = TxConfirmed
	tx2 := NewTransaction(ChainEthereum, "addr-a", "addr-c", "0.5")
	tx2.Status = TxFailed
	tx3 := NewTransaction(ChainSolana, "addr-x", "addr-b", "2")
	tx3.Status = TxConfirmed

	l.Append(tx1)
	l.Append(tx2)
	l.Append(tx3)

	all := l.Transactions()
	require.Len(t, all, 3)
	assert.Same(t, tx1, all[0])
	assert.Same(t, tx2, all[1])
	assert.Same(t, tx3, all[2])

	// Failed transactions stay in the ledger for audit.
	byA := l.TransactionsByAccount("addr-a")
	require.Len(t, byA, 2)
	assert.Equal(t, TxConfirmed, byA[0].Status)
	assert.Equal(t, TxFailed, byA[1].Status)

	assert.Empty(t, l.TransactionsByAccount("addr-unknown"))
}

func TestNewTransaction(t *testing.T) {
	tx := NewTransaction(ChainSolana, "from", "to", "1")

	assert.Equal(t, TxPending, tx.Status)
	assert.Equal(t, ChainSolana, tx.Chain)
	assert.Empty(t, tx.Hash)
	assert.False(t, tx.Timestamp.IsZero())
}

func TestNewTransaction_DistinctIDsUnderRapidCalls(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tx := NewTransaction(ChainEthereum, "from", "to", "1")
		_, dup := seen[tx.ID]
		require.False(t, dup, "duplicate transaction id %s", tx.ID)
		seen[tx.ID] = struct{}{}
	}
}

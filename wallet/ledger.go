package wallet

import "sync"

// Ledger is the append-only in-memory record of attempted transfers,
// failed ones included. Transactions are never removed; association
// with an account is by matching the From address at query time.
type Ledger struct {
	mu  sync.Mutex
	txs []*Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a transaction. Called exactly once per send attempt,
// after the transaction reached its terminal status.
func (l *Ledger) Append(tx *Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append(l.txs, tx)
}

// Transactions returns all recorded transactions in append order.
func (l *Ledger) Transactions() []*Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// TransactionsByAccount returns the transactions whose From address
// matches the given address, in append order.
func (l *Ledger) TransactionsByAccount(address string) []*Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*Transaction
	for _, tx := range l.txs {
		if tx.From == address {
			out = append(out, tx)
		}
	}
	return out
}

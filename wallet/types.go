// Package wallet holds the domain model for the dual-chain HD wallet:
// accounts, transactions, the registry and ledger that own them, and the
// service that orchestrates balance queries and transfers across chains.
package wallet

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Chain identifies one of the supported blockchains.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainSolana   Chain = "solana"
)

// Valid reports whether c is a known chain.
func (c Chain) Valid() bool {
	return c == ChainEthereum || c == ChainSolana
}

// Account represents one derived keypair bound to one chain.
// PrivateKey and Mnemonic live only in process memory; they are never
// logged and never persisted.
type Account struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Chain          Chain  `json:"chain"`
	Address        string `json:"address"`
	PublicKey      string `json:"public_key"`
	PrivateKey     string `json:"-"`
	Balance        string `json:"balance"`
	Mnemonic       string `json:"-"`
	DerivationPath string `json:"derivation_path"`
}

// AccountID forms the deterministic account identity for a chain and
// derivation index. It doubles as the registry's natural key.
func AccountID(chain Chain, index int) string {
	return fmt.Sprintf("%s-%d", chain, index)
}

// TxStatus is the lifecycle state of a submitted transfer.
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// Transaction represents one attempted transfer. It is created in
// pending state before any network call and transitions exactly once to
// confirmed or failed. Hash is populated eagerly on successful
// submission, before confirmation is known.
type Transaction struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    string    `json:"amount"`
	Chain     Chain     `json:"chain"`
	Status    TxStatus  `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Hash      string    `json:"hash,omitempty"`
}

var txSeq atomic.Uint64

// NewTransaction creates a pending transaction record. The ID combines
// the creation timestamp with a process-wide counter so that rapid
// back-to-back sends within one clock tick still get distinct IDs.
func NewTransaction(chain Chain, from, to, amount string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:        fmt.Sprintf("tx-%d-%d", now.UnixMilli(), txSeq.Add(1)),
		From:      from,
		To:        to,
		Amount:    amount,
		Chain:     chain,
		Status:    TxPending,
		Timestamp: now,
	}
}

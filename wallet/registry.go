package wallet

import (
	"fmt"
	"sync"
)

// Factory turns a mnemonic-derived seed into a chain-native account.
// Each chain implements its own derivation path and key encoding.
type Factory interface {
	Chain() Chain
	// DeriveAccount derives the keypair at the chain's derivation path
	// for index and builds the Account. The returned account has
	// Balance "0"; balance refresh is the service's job.
	DeriveAccount(seed []byte, index int, name, mnemonic string) (*Account, error)
}

// Registry is the in-memory collection of accounts and the single
// source of truth for which accounts exist. Accounts are never removed,
// so per-chain derivation indices stay dense. Construct one per
// session; there is no package-level instance.
type Registry struct {
	mu       sync.Mutex
	accounts []*Account
	byID     map[string]*Account
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Account)}
}

// Create derives a new account from the seed at the given index and
// commits it, enforcing two invariants: no existing account shares the
// id "<chain>-<index>", and no existing account on the same chain
// shares the name. Violations fail with a DuplicateAccountError before
// any key material is derived.
func (r *Registry) Create(factory Factory, seed []byte, index int, name, mnemonic string) (*Account, error) {
	chain := factory.Chain()
	id := AccountID(chain, index)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; ok {
		return nil, &DuplicateAccountError{Field: DuplicateID, Chain: chain, Value: id}
	}
	for _, a := range r.accounts {
		if a.Chain == chain && a.Name == name {
			return nil, &DuplicateAccountError{Field: DuplicateName, Chain: chain, Value: name}
		}
	}

	acct, err := factory.DeriveAccount(seed, index, name, mnemonic)
	if err != nil {
		return nil, fmt.Errorf("derive account %s: %w", id, err)
	}
	r.accounts = append(r.accounts, acct)
	r.byID[acct.ID] = acct
	return acct, nil
}

// Accounts returns all accounts in insertion order.
func (r *Registry) Accounts() []*Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Account looks up an account by id.
func (r *Registry) Account(id string) (*Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	return a, ok
}

// CountByChain returns how many accounts exist on a chain. The next
// derivation index for that chain by convention.
func (r *Registry) CountByChain(chain Chain) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.Chain == chain {
			n++
		}
	}
	return n
}

package wallet

import "fmt"

// DuplicateField distinguishes which uniqueness invariant a
// DuplicateAccountError violated.
type DuplicateField string

const (
	DuplicateID   DuplicateField = "id"
	DuplicateName DuplicateField = "name"
)

// DuplicateAccountError is returned by the registry when an account
// creation would collide with an existing account's id, or with an
// existing name on the same chain.
type DuplicateAccountError struct {
	Field DuplicateField
	Chain Chain
	Value string
}

func (e *DuplicateAccountError) Error() string {
	if e.Field == DuplicateName {
		return fmt.Sprintf("account name %q already exists on chain %s", e.Value, e.Chain)
	}
	return fmt.Sprintf("account %q already exists", e.Value)
}

// DerivationError indicates a malformed derivation path or seed. It is
// a programming error, not a user-correctable condition.
type DerivationError struct {
	Path string
	Err  error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derivation failed for path %q: %v", e.Path, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// ValidationError rejects a transfer request before any network effect:
// empty recipient, empty amount, or amount <= 0.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// InvalidAddressError names the expected format for a malformed
// recipient address. User-correctable.
type InvalidAddressError struct {
	Address  string
	Expected string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: expected %s", e.Address, e.Expected)
}

// InsufficientBalanceError is raised before submission when the
// on-chain balance cannot cover the requested amount. Both values are
// in the chain's smallest unit.
type InsufficientBalanceError struct {
	Address string
	Need    string
	Have    string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: need %s, have %s", e.Address, e.Need, e.Have)
}

// KeyIntegrityError indicates that a keypair regenerated from stored
// key material does not reproduce the account's recorded address.
// Fatal: sending would spend from the wrong identity.
type KeyIntegrityError struct {
	AccountID string
	Expected  string
	Got       string
}

func (e *KeyIntegrityError) Error() string {
	return fmt.Sprintf("key material for account %s regenerates address %s, expected %s", e.AccountID, e.Got, e.Expected)
}

// NetworkError wraps a failed network round trip. There is no internal
// retry policy; each call attempt is one round trip.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AirdropError wraps a failed faucet request (rate limits, network
// failures, confirmation failures).
type AirdropError struct {
	Address string
	Err     error
}

func (e *AirdropError) Error() string {
	return fmt.Sprintf("airdrop to %s failed: %v", e.Address, e.Err)
}

func (e *AirdropError) Unwrap() error { return e.Err }

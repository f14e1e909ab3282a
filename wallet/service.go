package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pouchwallet/pouch/wallet/hd"
)

// Engine is the per-chain transaction engine capability set. The EVM
// and Solana packages each provide one.
type Engine interface {
	Chain() Chain
	// Balance returns the on-chain native balance of address in the
	// chain's human-readable unit, as a decimal string.
	Balance(ctx context.Context, address string) (string, error)
	// Send validates, builds, signs, submits and confirms a transfer.
	// Whenever a pending Transaction record was created (validation
	// passed), it is returned even on failure, with a terminal status.
	Send(ctx context.Context, from *Account, to, amount string) (*Transaction, error)
	// RequestAirdrop obtains test funds for the account, or returns
	// human-readable faucet instructions on chains without a
	// programmatic faucet.
	RequestAirdrop(ctx context.Context, acct *Account) (string, error)
}

// ValidateTransfer is the chain-agnostic pre-flight check shared by the
// engines: recipient and amount must be present, and the amount must
// parse to a positive value. Runs strictly before any network call or
// private-key use.
func ValidateTransfer(to, amount string, decimals int) error {
	if strings.TrimSpace(to) == "" {
		return &ValidationError{Reason: "recipient address is required"}
	}
	if strings.TrimSpace(amount) == "" {
		return &ValidationError{Reason: "amount is required"}
	}
	v, err := ParseAmount(amount, decimals)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid amount %q: %v", amount, err)}
	}
	if v.Sign() <= 0 {
		return &ValidationError{Reason: "amount must be greater than zero"}
	}
	return nil
}

// Service wires the registry, ledger and per-chain engines together.
// It owns the balance-oracle policy and guarantees every send attempt
// lands in the ledger exactly once.
type Service struct {
	registry  *Registry
	ledger    *Ledger
	factories map[Chain]Factory
	engines   map[Chain]Engine
	logger    *slog.Logger
}

// NewService creates a Service over the given registry and ledger.
func NewService(registry *Registry, ledger *Ledger, factories []Factory, engines []Engine, logger *slog.Logger) *Service {
	fm := make(map[Chain]Factory, len(factories))
	for _, f := range factories {
		fm[f.Chain()] = f
	}
	em := make(map[Chain]Engine, len(engines))
	for _, e := range engines {
		em[e.Chain()] = e
	}
	return &Service{
		registry:  registry,
		ledger:    ledger,
		factories: fm,
		engines:   em,
		logger:    logger,
	}
}

// Registry exposes the account registry.
func (s *Service) Registry() *Registry { return s.registry }

// Ledger exposes the transaction ledger.
func (s *Service) Ledger() *Ledger { return s.ledger }

// GenerateMnemonic produces a new 24-word recovery phrase from 256 bits
// of entropy. This is the sole root of trust for every key derived from
// the resulting account family.
func (s *Service) GenerateMnemonic() (string, error) {
	return hd.GenerateMnemonic()
}

// CreateAccount derives and registers an account at the given index,
// then refreshes its cached balance. The caller conventionally passes
// the per-chain account count as index (see NextIndex); the registry's
// uniqueness check is the actual safety net.
func (s *Service) CreateAccount(ctx context.Context, name string, chain Chain, mnemonic string, index int) (*Account, error) {
	factory, ok := s.factories[chain]
	if !ok {
		return nil, fmt.Errorf("unsupported chain %q", chain)
	}
	seed, err := hd.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	acct, err := s.registry.Create(factory, seed, index, name, mnemonic)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account created",
		"id", acct.ID,
		"chain", acct.Chain,
		"address", acct.Address,
		"path", acct.DerivationPath,
	)

	s.RefreshBalance(ctx, acct)
	return acct, nil
}

// NextIndex returns the conventional derivation index for a new account
// on the chain: the count of accounts already registered there.
func (s *Service) NextIndex(chain Chain) int {
	return s.registry.CountByChain(chain)
}

// RefreshBalance queries the chain for the account's native balance and
// updates the cached value. On any failure it degrades to "0" rather
// than propagating, so callers refreshing after transfers never fail on
// a transient balance error. The cost: a "0" cannot be told apart from
// "balance unknown".
func (s *Service) RefreshBalance(ctx context.Context, acct *Account) string {
	engine, ok := s.engines[acct.Chain]
	if !ok {
		acct.Balance = "0"
		return acct.Balance
	}
	bal, err := engine.Balance(ctx, acct.Address)
	if err != nil {
		s.logger.WarnContext(ctx, "balance query failed, reporting zero",
			"account", acct.ID,
			"error", err,
		)
		acct.Balance = "0"
		return acct.Balance
	}
	acct.Balance = bal
	return acct.Balance
}

// Send transfers native funds from the account to the recipient. The
// resulting transaction, confirmed or failed, is appended to the ledger
// exactly once, and the account's cached balance is refreshed.
func (s *Service) Send(ctx context.Context, accountID, to, amount string) (*Transaction, error) {
	acct, ok := s.registry.Account(accountID)
	if !ok {
		return nil, fmt.Errorf("account %q not found", accountID)
	}
	engine, ok := s.engines[acct.Chain]
	if !ok {
		return nil, fmt.Errorf("unsupported chain %q", acct.Chain)
	}

	tx, err := engine.Send(ctx, acct, to, amount)
	if tx != nil {
		s.ledger.Append(tx)
		s.RefreshBalance(ctx, acct)
	}
	if err != nil {
		return tx, err
	}

	s.logger.InfoContext(ctx, "transfer complete",
		"account", acct.ID,
		"to", to,
		"amount", amount,
		"hash", tx.Hash,
		"status", tx.Status,
	)
	return tx, nil
}

// RequestAirdrop obtains test funds for the account and refreshes its
// cached balance. On the Solana chain this is a real faucet call; on
// the EVM chain it returns pointers at external faucet services.
func (s *Service) RequestAirdrop(ctx context.Context, accountID string) (string, error) {
	acct, ok := s.registry.Account(accountID)
	if !ok {
		return "", fmt.Errorf("account %q not found", accountID)
	}
	engine, ok := s.engines[acct.Chain]
	if !ok {
		return "", fmt.Errorf("unsupported chain %q", acct.Chain)
	}

	result, err := engine.RequestAirdrop(ctx, acct)
	s.RefreshBalance(ctx, acct)
	if err != nil {
		return "", err
	}
	return result, nil
}

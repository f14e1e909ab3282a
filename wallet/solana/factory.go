// Package solana implements the Solana-chain account factory and
// transaction engine over solana-go.
package solana

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/hd"
)

// Factory derives Solana accounts: SLIP-10 ed25519 seeds at the fully
// hardened path m/44'/501'/0'/0'/{index}', encoded as base58 addresses.
type Factory struct{}

// NewFactory creates a Solana account factory.
func NewFactory() *Factory { return &Factory{} }

// Chain implements wallet.Factory.
func (*Factory) Chain() wallet.Chain { return wallet.ChainSolana }

// DeriveAccount derives the ed25519 keypair at the chain path for index
// and builds the account. The 32 derived bytes are a key-generation
// seed, not a private scalar; they go through ed25519 key generation
// and the stored private key is that seed, hex-encoded, so the keypair
// can be regenerated from it exactly.
func (*Factory) DeriveAccount(seed []byte, index int, name, mnemonic string) (*wallet.Account, error) {
	path := hd.SolanaPath(index)
	raw, err := hd.DeriveEd25519(seed, path)
	if err != nil {
		return nil, &wallet.DerivationError{Path: path, Err: err}
	}
	key := ed25519.NewKeyFromSeed(raw)
	addr := base58.Encode(key.Public().(ed25519.PublicKey))

	return &wallet.Account{
		ID:             wallet.AccountID(wallet.ChainSolana, index),
		Name:           name,
		Chain:          wallet.ChainSolana,
		Address:        addr,
		PublicKey:      addr,
		PrivateKey:     hex.EncodeToString(raw),
		Balance:        "0",
		Mnemonic:       mnemonic,
		DerivationPath: path,
	}, nil
}

// Package evm implements the EVM-chain account factory and transaction
// engine over go-ethereum.
package evm

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/hd"
)

// Factory derives EVM accounts: BIP-32 secp256k1 keys at
// m/44'/60'/0'/0/{index}, encoded as checksummed hex addresses.
type Factory struct{}

// NewFactory creates an EVM account factory.
func NewFactory() *Factory { return &Factory{} }

// Chain implements wallet.Factory.
func (*Factory) Chain() wallet.Chain { return wallet.ChainEthereum }

// DeriveAccount derives the secp256k1 keypair at the chain path for
// index and builds the account. The address is derived from the public
// key and displayed as such, so Address and PublicKey are set equal.
func (*Factory) DeriveAccount(seed []byte, index int, name, mnemonic string) (*wallet.Account, error) {
	path := hd.EthereumPath(index)
	raw, err := hd.DeriveSecp256k1(seed, path)
	if err != nil {
		return nil, &wallet.DerivationError{Path: path, Err: err}
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, &wallet.DerivationError{Path: path, Err: fmt.Errorf("secp256k1 key from derived bytes: %w", err)}
	}
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	return &wallet.Account{
		ID:             wallet.AccountID(wallet.ChainEthereum, index),
		Name:           name,
		Chain:          wallet.ChainEthereum,
		Address:        addr,
		PublicKey:      addr,
		PrivateKey:     hex.EncodeToString(raw),
		Balance:        "0",
		Mnemonic:       mnemonic,
		DerivationPath: path,
	}, nil
}

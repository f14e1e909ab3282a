// Package hd implements the mnemonic handling and hierarchical key
// derivation shared by both chain factories: BIP-39 mnemonic-to-seed
// stretching, BIP-32 derivation on secp256k1 for the EVM chain, and
// SLIP-10 derivation on ed25519 for the Solana chain.
package hd

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic from a
// cryptographically secure random source.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// SeedFromMnemonic validates the phrase and stretches it into the
// 64-byte binary seed. An empty passphrase is used throughout; the
// mnemonic itself is the backup.
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, fmt.Errorf("mnemonic required")
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}
	return bip39.NewSeed(mnemonic, ""), nil
}

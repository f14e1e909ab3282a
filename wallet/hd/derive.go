package hd

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// Derivation path templates. Fixed, non-configurable: changing either
// produces wallets whose funds cannot be recovered by standard tools.
//
// The EVM path is hardened through the account level with a
// non-hardened address index; the Solana path is fully hardened
// including the final index, as SLIP-10 ed25519 requires.
const (
	ethereumPathTemplate = "m/44'/60'/0'/0/%d"
	solanaPathTemplate   = "m/44'/501'/0'/0'/%d'"
)

// EthereumPath returns the BIP-44 path for the EVM chain at index.
func EthereumPath(index int) string {
	return fmt.Sprintf(ethereumPathTemplate, index)
}

// SolanaPath returns the fully hardened path for the Solana chain at
// index.
func SolanaPath(index int) string {
	return fmt.Sprintf(solanaPathTemplate, index)
}

type pathStep struct {
	index    uint32
	hardened bool
}

// parsePath splits a BIP-44-style path into steps. Only the syntax the
// derivation algorithms need is enforced here; everything else fails
// inside derivation.
func parsePath(path string) ([]pathStep, error) {
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] != "m" {
		return nil, fmt.Errorf("path must start with m/")
	}
	steps := make([]pathStep, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		hardened := strings.HasSuffix(seg, "'")
		raw := strings.TrimSuffix(seg, "'")
		idx, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", seg, err)
		}
		if idx >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("path segment %q out of range", seg)
		}
		steps = append(steps, pathStep{index: uint32(idx), hardened: hardened})
	}
	return steps, nil
}

// DeriveSecp256k1 derives the 32-byte secp256k1 private key at path
// from a 64-byte seed via BIP-32. Identical inputs always yield
// identical output; this is the basis for deterministic recovery.
func DeriveSecp256k1(seed []byte, path string) ([]byte, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	// The network params only affect serialization prefixes, which we
	// never emit; key material is network-independent.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("master key from seed: %w", err)
	}
	for _, step := range steps {
		idx := step.index
		if step.hardened {
			idx += hdkeychain.HardenedKeyStart
		}
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", step.index, err)
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return priv.Serialize(), nil
}

// slip10Ed25519Key is the HMAC key for the ed25519 master node, per
// SLIP-0010.
const slip10Ed25519Key = "ed25519 seed"

// DeriveEd25519 derives the 32-byte ed25519 key-generation seed at path
// via SLIP-10. The output is not a raw private scalar: it must be fed
// through ed25519 key generation, and feeding it into the wrong curve
// yields an unrelated, unrecoverable address.
//
// SLIP-10 defines only hardened derivation for ed25519, so every path
// segment must be hardened.
func DeriveEd25519(seed []byte, path string) ([]byte, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha512.New, []byte(slip10Ed25519Key))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, step := range steps {
		if !step.hardened {
			return nil, fmt.Errorf("ed25519 derivation requires hardened path segments, got %d", step.index)
		}
		var data [1 + 32 + 4]byte
		copy(data[1:], key)
		binary.BigEndian.PutUint32(data[33:], step.index+hdkeychain.HardenedKeyStart)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data[:])
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}
	return key, nil
}

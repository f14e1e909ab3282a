package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/metrics"
)

// RPCClient is the subset of solana-go rpc.Client operations the engine
// needs. Keeping it an interface lets tests mock the RPC layer without
// hitting real Solana nodes.
type RPCClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamport uint64, commitment rpc.CommitmentType) (solana.Signature, error)
}

// airdropLamports is the faucet request size: 1 SOL.
const airdropLamports = 1_000_000_000

// Engine builds, signs, submits and confirms native SOL transfers.
type Engine struct {
	rpc          RPCClient
	logger       *slog.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration
}

// NewEngine creates a Solana transaction engine. If m is nil, no
// metrics are recorded.
func NewEngine(rpcClient RPCClient, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		rpc:          rpcClient,
		logger:       logger,
		metrics:      m,
		pollInterval: 2 * time.Second,
	}
}

// Chain implements wallet.Engine.
func (*Engine) Chain() wallet.Chain { return wallet.ChainSolana }

// SetPollInterval overrides how often the engine polls for signature
// status while awaiting confirmation.
func (e *Engine) SetPollInterval(d time.Duration) { e.pollInterval = d }

// Balance returns the address's native balance in SOL as a decimal
// string, converted from lamports.
func (e *Engine) Balance(ctx context.Context, address string) (string, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", &wallet.InvalidAddressError{Address: address, Expected: "a base58-encoded public key"}
	}
	lamports, err := e.lamportBalance(ctx, pub)
	if err != nil {
		return "", err
	}
	return wallet.FormatAmount(new(big.Int).SetUint64(lamports), wallet.SolanaDecimals), nil
}

// Send transfers amount SOL from the account to the recipient. The
// returned transaction is non-nil whenever validation passed, carrying
// a terminal status even on failure.
func (e *Engine) Send(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error) {
	if err := wallet.ValidateTransfer(to, amount, wallet.SolanaDecimals); err != nil {
		return nil, err
	}
	recipient, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return nil, &wallet.InvalidAddressError{Address: to, Expected: "a base58-encoded public key"}
	}

	tx := wallet.NewTransaction(wallet.ChainSolana, from.Address, to, amount)
	fail := func(err error) (*wallet.Transaction, error) {
		tx.Status = wallet.TxFailed
		e.metrics.RecordTransaction(string(wallet.ChainSolana), string(wallet.TxFailed))
		return tx, err
	}

	key, err := e.keypairFor(from)
	if err != nil {
		return fail(err)
	}
	payer := key.PublicKey()

	amountLamports, err := wallet.ParseAmount(amount, wallet.SolanaDecimals)
	if err != nil {
		return fail(&wallet.ValidationError{Reason: err.Error()})
	}
	if !amountLamports.IsUint64() {
		return fail(&wallet.ValidationError{Reason: fmt.Sprintf("amount %s overflows lamports", amount)})
	}
	lamports := amountLamports.Uint64()

	balance, err := e.lamportBalance(ctx, payer)
	if err != nil {
		return fail(err)
	}
	if balance < lamports {
		return fail(&wallet.InsufficientBalanceError{
			Address: from.Address,
			Need:    amountLamports.String(),
			Have:    fmt.Sprintf("%d", balance),
		})
	}

	blockhash, err := e.latestBlockhash(ctx)
	if err != nil {
		return fail(err)
	}

	transfer := system.NewTransferInstruction(lamports, payer, recipient).Build()
	native, err := solana.NewTransaction(
		[]solana.Instruction{transfer},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return fail(fmt.Errorf("build transaction: %w", err))
	}
	if _, err := native.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(payer) {
			return &key
		}
		return nil
	}); err != nil {
		return fail(fmt.Errorf("sign transaction: %w", err))
	}

	start := time.Now()
	sig, err := e.rpc.SendTransaction(ctx, native)
	e.recordRPC("SendTransaction", err, start)
	if err != nil {
		return fail(&wallet.NetworkError{Op: "submit transaction", Err: err})
	}
	tx.Hash = sig.String()

	e.logger.InfoContext(ctx, "transaction submitted, awaiting confirmation",
		"signature", tx.Hash,
		"from", from.Address,
		"to", to,
	)

	if err := e.awaitConfirmation(ctx, sig); err != nil {
		return fail(err)
	}

	tx.Status = wallet.TxConfirmed
	e.metrics.RecordTransaction(string(wallet.ChainSolana), string(wallet.TxConfirmed))
	return tx, nil
}

// RequestAirdrop calls the network faucet for 1 SOL and blocks until
// the airdrop transaction confirms. Faucet rate limits and network
// failures surface as AirdropError.
func (e *Engine) RequestAirdrop(ctx context.Context, acct *wallet.Account) (string, error) {
	pub, err := solana.PublicKeyFromBase58(acct.Address)
	if err != nil {
		return "", &wallet.InvalidAddressError{Address: acct.Address, Expected: "a base58-encoded public key"}
	}

	start := time.Now()
	sig, err := e.rpc.RequestAirdrop(ctx, pub, airdropLamports, rpc.CommitmentFinalized)
	e.recordRPC("RequestAirdrop", err, start)
	if err != nil {
		e.metrics.RecordAirdrop(string(wallet.ChainSolana), "error")
		return "", &wallet.AirdropError{Address: acct.Address, Err: err}
	}

	if err := e.awaitConfirmation(ctx, sig); err != nil {
		e.metrics.RecordAirdrop(string(wallet.ChainSolana), "error")
		return "", &wallet.AirdropError{Address: acct.Address, Err: err}
	}

	e.metrics.RecordAirdrop(string(wallet.ChainSolana), "success")
	return sig.String(), nil
}

// keypairFor regenerates the account's keypair from the stored seed
// bytes and asserts it reproduces the recorded address. A mismatch
// means corrupted key material; sending would spend from the wrong
// identity, so it fails hard.
func (e *Engine) keypairFor(acct *wallet.Account) (solana.PrivateKey, error) {
	raw, err := hex.DecodeString(acct.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode private key for %s: %w", acct.ID, err)
	}
	if len(raw) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key for %s: expected %d seed bytes, got %d", acct.ID, ed25519.SeedSize, len(raw))
	}
	key := solana.PrivateKey(ed25519.NewKeyFromSeed(raw))
	if got := key.PublicKey().String(); got != acct.Address {
		return nil, &wallet.KeyIntegrityError{AccountID: acct.ID, Expected: acct.Address, Got: got}
	}
	return key, nil
}

// awaitConfirmation polls signature statuses until the network reports
// the transaction confirmed or failed, or ctx is cancelled.
func (e *Engine) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		out, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		e.recordRPC("GetSignatureStatuses", err, start)
		if err != nil {
			e.logger.WarnContext(ctx, "status query failed, retrying",
				"signature", sig.String(),
				"error", err,
			)
		} else if len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) lamportBalance(ctx context.Context, pub solana.PublicKey) (uint64, error) {
	start := time.Now()
	out, err := e.rpc.GetBalance(ctx, pub, rpc.CommitmentFinalized)
	e.recordRPC("GetBalance", err, start)
	if err != nil {
		return 0, &wallet.NetworkError{Op: "query balance", Err: err}
	}
	return out.Value, nil
}

func (e *Engine) latestBlockhash(ctx context.Context) (solana.Hash, error) {
	start := time.Now()
	out, err := e.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	e.recordRPC("GetLatestBlockhash", err, start)
	if err != nil {
		return solana.Hash{}, &wallet.NetworkError{Op: "query blockhash", Err: err}
	}
	return out.Value.Blockhash, nil
}

func (e *Engine) recordRPC(method string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordRPCCall(string(wallet.ChainSolana), method, status, time.Since(start).Seconds())
}

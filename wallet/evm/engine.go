package evm

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/metrics"
)

// RPCClient is the subset of ethclient.Client operations the engine
// needs. Keeping it an interface lets tests mock the RPC layer without
// hitting real nodes.
type RPCClient interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// addressPattern is the fixed format every EVM recipient must match.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// transferGasLimit is the fixed gas cost of a native transfer.
const transferGasLimit = 21000

// Engine builds, signs, submits and confirms native EVM transfers.
type Engine struct {
	rpc          RPCClient
	chainID      *big.Int
	logger       *slog.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration
	faucetHint   string
}

// NewEngine creates an EVM transaction engine for the given chain ID.
// If m is nil, no metrics are recorded.
func NewEngine(rpc RPCClient, chainID int64, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		rpc:          rpc,
		chainID:      big.NewInt(chainID),
		logger:       logger,
		metrics:      m,
		pollInterval: 2 * time.Second,
		faucetHint: "no programmatic faucet for this chain; request test funds for the address from " +
			"https://sepoliafaucet.com or https://faucets.chain.link/sepolia",
	}
}

// Chain implements wallet.Engine.
func (*Engine) Chain() wallet.Chain { return wallet.ChainEthereum }

// SetPollInterval overrides how often the engine polls for a receipt
// while awaiting confirmation.
func (e *Engine) SetPollInterval(d time.Duration) { e.pollInterval = d }

// Balance returns the address's native balance in ETH as a decimal
// string, converted from wei.
func (e *Engine) Balance(ctx context.Context, address string) (string, error) {
	wei, err := e.balanceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return "", err
	}
	return wallet.FormatAmount(wei, wallet.EthereumDecimals), nil
}

// Send transfers amount ETH from the account to the recipient. The
// returned transaction is non-nil whenever validation passed, carrying
// a terminal status even on failure.
func (e *Engine) Send(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error) {
	if err := wallet.ValidateTransfer(to, amount, wallet.EthereumDecimals); err != nil {
		return nil, err
	}
	if !addressPattern.MatchString(to) {
		return nil, &wallet.InvalidAddressError{Address: to, Expected: "0x followed by 40 hex characters"}
	}

	tx := wallet.NewTransaction(wallet.ChainEthereum, from.Address, to, amount)
	fail := func(err error) (*wallet.Transaction, error) {
		tx.Status = wallet.TxFailed
		e.metrics.RecordTransaction(string(wallet.ChainEthereum), string(wallet.TxFailed))
		return tx, err
	}

	raw, err := hex.DecodeString(from.PrivateKey)
	if err != nil {
		return fail(fmt.Errorf("decode private key for %s: %w", from.ID, err))
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return fail(fmt.Errorf("reconstruct signing key for %s: %w", from.ID, err))
	}

	weiAmount, err := wallet.ParseAmount(amount, wallet.EthereumDecimals)
	if err != nil {
		return fail(&wallet.ValidationError{Reason: err.Error()})
	}

	balance, err := e.balanceAt(ctx, common.HexToAddress(from.Address))
	if err != nil {
		return fail(err)
	}
	if balance.Cmp(weiAmount) < 0 {
		return fail(&wallet.InsufficientBalanceError{
			Address: from.Address,
			Need:    weiAmount.String(),
			Have:    balance.String(),
		})
	}

	nonce, err := e.pendingNonce(ctx, common.HexToAddress(from.Address))
	if err != nil {
		return fail(err)
	}
	gasPrice, err := e.gasPrice(ctx)
	if err != nil {
		return fail(err)
	}

	toAddr := common.HexToAddress(to)
	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      transferGasLimit,
		To:       &toAddr,
		Value:    weiAmount,
	})
	signed, err := types.SignTx(unsigned, types.NewEIP155Signer(e.chainID), key)
	if err != nil {
		return fail(fmt.Errorf("sign transaction: %w", err))
	}

	start := time.Now()
	err = e.rpc.SendTransaction(ctx, signed)
	e.recordRPC("SendTransaction", err, start)
	if err != nil {
		return fail(&wallet.NetworkError{Op: "submit transaction", Err: err})
	}
	tx.Hash = signed.Hash().Hex()

	e.logger.InfoContext(ctx, "transaction submitted, awaiting receipt",
		"hash", tx.Hash,
		"from", from.Address,
		"to", to,
	)

	receipt, err := e.waitMined(ctx, signed.Hash())
	if err != nil {
		return fail(&wallet.NetworkError{Op: "await receipt", Err: err})
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(fmt.Errorf("transaction %s reverted", tx.Hash))
	}

	tx.Status = wallet.TxConfirmed
	e.metrics.RecordTransaction(string(wallet.ChainEthereum), string(wallet.TxConfirmed))
	return tx, nil
}

// RequestAirdrop has no network effect on EVM chains: there is no
// programmatic faucet, so it returns instructions pointing at external
// faucet services. The caller refreshes the balance afterwards.
func (e *Engine) RequestAirdrop(ctx context.Context, acct *wallet.Account) (string, error) {
	e.metrics.RecordAirdrop(string(wallet.ChainEthereum), "instructions")
	return fmt.Sprintf("%s: %s", acct.Address, e.faucetHint), nil
}

// waitMined polls for the transaction receipt until the network reports
// inclusion or ctx is cancelled. A missing receipt and transient RPC
// errors both mean "keep waiting".
func (e *Engine) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		receipt, err := e.rpc.TransactionReceipt(ctx, hash)
		e.recordRPC("TransactionReceipt", err, start)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			e.logger.WarnContext(ctx, "receipt query failed, retrying",
				"hash", hash.Hex(),
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) balanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	start := time.Now()
	wei, err := e.rpc.BalanceAt(ctx, addr, nil)
	e.recordRPC("BalanceAt", err, start)
	if err != nil {
		return nil, &wallet.NetworkError{Op: "query balance", Err: err}
	}
	return wei, nil
}

func (e *Engine) pendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	start := time.Now()
	nonce, err := e.rpc.PendingNonceAt(ctx, addr)
	e.recordRPC("PendingNonceAt", err, start)
	if err != nil {
		return 0, &wallet.NetworkError{Op: "query nonce", Err: err}
	}
	return nonce, nil
}

func (e *Engine) gasPrice(ctx context.Context) (*big.Int, error) {
	start := time.Now()
	price, err := e.rpc.SuggestGasPrice(ctx)
	e.recordRPC("SuggestGasPrice", err, start)
	if err != nil {
		return nil, &wallet.NetworkError{Op: "query gas price", Err: err}
	}
	return price, nil
}

func (e *Engine) recordRPC(method string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordRPCCall(string(wallet.ChainEthereum), method, status, time.Since(start).Seconds())
}

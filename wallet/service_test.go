package wallet_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/evm"
	solfactory "github.com/pouchwallet/pouch/wallet/solana"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

var evmAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// stubEngine lets service tests script engine behavior without any
// chain RPC.
type stubEngine struct {
	chain         wallet.Chain
	balance       string
	balanceErr    error
	sendFn        func(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error)
	airdropResult string
	airdropErr    error
}

func (s *stubEngine) Chain() wallet.Chain { return s.chain }

func (s *stubEngine) Balance(ctx context.Context, address string) (string, error) {
	if s.balanceErr != nil {
		return "", s.balanceErr
	}
	return s.balance, nil
}

func (s *stubEngine) Send(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, from, to, amount)
	}
	tx := wallet.NewTransaction(s.chain, from.Address, to, amount)
	tx.Status = wallet.TxConfirmed
	tx.Hash = "stub-hash"
	return tx, nil
}

func (s *stubEngine) RequestAirdrop(ctx context.Context, acct *wallet.Account) (string, error) {
	return s.airdropResult, s.airdropErr
}

func newTestService(t *testing.T, engines ...wallet.Engine) *wallet.Service {
	t.Helper()
	if len(engines) == 0 {
		engines = []wallet.Engine{
			&stubEngine{chain: wallet.ChainEthereum, balance: "0"},
			&stubEngine{chain: wallet.ChainSolana, balance: "0"},
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return wallet.NewService(
		wallet.NewRegistry(),
		wallet.NewLedger(),
		[]wallet.Factory{evm.NewFactory(), solfactory.NewFactory()},
		engines,
		logger,
	)
}

func TestCreateAccount_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	mnemonic, err := svc.GenerateMnemonic()
	require.NoError(t, err)

	acct, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, mnemonic, svc.NextIndex(wallet.ChainEthereum))
	require.NoError(t, err)

	assert.Equal(t, "ethereum-0", acct.ID)
	assert.Equal(t, "0", acct.Balance)
	assert.Regexp(t, evmAddressPattern, acct.Address)
	assert.Equal(t, acct.Address, acct.PublicKey)
	assert.Equal(t, "m/44'/60'/0'/0/0", acct.DerivationPath)
}

func TestCreateAccount_CrossChainNameReuse(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	eth, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	// Same mnemonic, same name, other chain: allowed.
	sol, err := svc.CreateAccount(ctx, "A", wallet.ChainSolana, testMnemonic, 0)
	require.NoError(t, err)

	assert.Equal(t, "solana-0", sol.ID)
	_, err = solana.PublicKeyFromBase58(sol.Address)
	require.NoError(t, err, "solana address must be base58")
	assert.NotEqual(t, eth.Address, sol.Address)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.Error(t, err)

	var dup *wallet.DuplicateAccountError
	require.ErrorAs(t, err, &dup)
	assert.Len(t, svc.Registry().Accounts(), 1)
}

func TestCreateAccount_InvalidMnemonic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, "definitely not a mnemonic", 0)
	require.Error(t, err)
	assert.Empty(t, svc.Registry().Accounts())
}

func TestCreateAccount_Deterministic(t *testing.T) {
	ctx := context.Background()

	a, err := newTestService(t).CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)
	b, err := newTestService(t).CreateAccount(ctx, "B", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	assert.Equal(t, a.Address, b.Address)
	assert.Equal(t, a.PrivateKey, b.PrivateKey)
}

func TestRefreshBalance_FailsToZero(t *testing.T) {
	ctx := context.Background()
	ethEngine := &stubEngine{chain: wallet.ChainEthereum, balance: "1.5"}
	svc := newTestService(t, ethEngine, &stubEngine{chain: wallet.ChainSolana})

	acct, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)
	assert.Equal(t, "1.5", acct.Balance)

	ethEngine.balanceErr = assert.AnError
	assert.Equal(t, "0", svc.RefreshBalance(ctx, acct))
	assert.Equal(t, "0", acct.Balance)
}

func TestSend_AppendsToLedgerAndRefreshesBalance(t *testing.T) {
	ctx := context.Background()
	ethEngine := &stubEngine{chain: wallet.ChainEthereum, balance: "2"}
	svc := newTestService(t, ethEngine, &stubEngine{chain: wallet.ChainSolana})

	acct, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	ethEngine.balance = "0.5"
	tx, err := svc.Send(ctx, acct.ID, "0x0123456789abcdef0123456789abcdef01234567", "1.5")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, wallet.TxConfirmed, tx.Status)

	recorded := svc.Ledger().TransactionsByAccount(acct.Address)
	require.Len(t, recorded, 1)
	assert.Same(t, tx, recorded[0])
	assert.Equal(t, "0.5", acct.Balance)
}

func TestSend_FailedTransactionStillRecorded(t *testing.T) {
	ctx := context.Background()
	ethEngine := &stubEngine{chain: wallet.ChainEthereum, balance: "0"}
	ethEngine.sendFn = func(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error) {
		tx := wallet.NewTransaction(wallet.ChainEthereum, from.Address, to, amount)
		tx.Status = wallet.TxFailed
		return tx, &wallet.InsufficientBalanceError{Address: from.Address, Need: "1", Have: "0"}
	}
	svc := newTestService(t, ethEngine, &stubEngine{chain: wallet.ChainSolana})

	acct, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	tx, err := svc.Send(ctx, acct.ID, "0x0123456789abcdef0123456789abcdef01234567", "1")
	require.Error(t, err)

	var insufficient *wallet.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	require.NotNil(t, tx)
	assert.Equal(t, wallet.TxFailed, tx.Status)

	recorded := svc.Ledger().TransactionsByAccount(acct.Address)
	require.Len(t, recorded, 1)
	assert.Equal(t, wallet.TxFailed, recorded[0].Status)
}

func TestSend_ValidationFailureLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	ethEngine := &stubEngine{chain: wallet.ChainEthereum}
	ethEngine.sendFn = func(ctx context.Context, from *wallet.Account, to, amount string) (*wallet.Transaction, error) {
		return nil, &wallet.ValidationError{Reason: "amount must be greater than zero"}
	}
	svc := newTestService(t, ethEngine, &stubEngine{chain: wallet.ChainSolana})

	acct, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)

	_, err = svc.Send(ctx, acct.ID, "0x0123456789abcdef0123456789abcdef01234567", "0")
	require.Error(t, err)
	assert.Empty(t, svc.Ledger().Transactions())
}

func TestSend_UnknownAccount(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Send(context.Background(), "ethereum-99", "0x0123456789abcdef0123456789abcdef01234567", "1")
	require.Error(t, err)
}

func TestRequestAirdrop_RefreshesBalance(t *testing.T) {
	ctx := context.Background()
	solEngine := &stubEngine{chain: wallet.ChainSolana, balance: "0", airdropResult: "airdrop-sig"}
	svc := newTestService(t, &stubEngine{chain: wallet.ChainEthereum}, solEngine)

	acct, err := svc.CreateAccount(ctx, "B", wallet.ChainSolana, testMnemonic, 0)
	require.NoError(t, err)

	solEngine.balance = "1"
	result, err := svc.RequestAirdrop(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "airdrop-sig", result)
	assert.Equal(t, "1", acct.Balance)
}

func TestNextIndex(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	assert.Equal(t, 0, svc.NextIndex(wallet.ChainEthereum))
	_, err := svc.CreateAccount(ctx, "A", wallet.ChainEthereum, testMnemonic, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.NextIndex(wallet.ChainEthereum))
	assert.Equal(t, 0, svc.NextIndex(wallet.ChainSolana))
}

func TestValidateTransfer(t *testing.T) {
	tests := []struct {
		name   string
		to     string
		amount string
		ok     bool
	}{
		{"valid", "addr", "1.5", true},
		{"empty recipient", "", "1", false},
		{"empty amount", "addr", "", false},
		{"zero amount", "addr", "0", false},
		{"negative amount", "addr", "-1", false},
		{"malformed amount", "addr", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wallet.ValidateTransfer(tt.to, tt.amount, wallet.SolanaDecimals)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var verr *wallet.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

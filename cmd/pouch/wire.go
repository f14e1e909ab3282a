package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/config"
	"github.com/pouchwallet/pouch/wallet/evm"
	"github.com/pouchwallet/pouch/wallet/metrics"
	"github.com/pouchwallet/pouch/wallet/solana"
)

// buildService constructs a fresh session: registry, ledger, both chain
// engines dialed against the configured test-network endpoints.
func buildService(c *cli.Context) (*wallet.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := c.String("evm-rpc-url"); v != "" {
		cfg.EVMRPCURL = v
	}
	if v := c.String("solana-rpc-url"); v != "" {
		cfg.SolanaRPCURL = v
	}

	logger := newLogger(c.String("log-level"))
	m := startMetrics(c.String("metrics-addr"), logger)

	ethClient, err := ethclient.Dial(cfg.EVMRPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial EVM RPC %s: %w", cfg.EVMRPCURL, err)
	}
	solClient := solanarpc.New(cfg.SolanaRPCURL)

	evmEngine := evm.NewEngine(ethClient, cfg.EVMChainID, m, logger)
	evmEngine.SetPollInterval(cfg.ConfirmPollInterval)
	solEngine := solana.NewEngine(solClient, m, logger)
	solEngine.SetPollInterval(cfg.ConfirmPollInterval)

	return wallet.NewService(
		wallet.NewRegistry(),
		wallet.NewLedger(),
		[]wallet.Factory{evm.NewFactory(), solana.NewFactory()},
		[]wallet.Engine{evmEngine, solEngine},
		logger,
	), nil
}

// startMetrics serves Prometheus collectors on addr when set. Returns
// nil (recording disabled) when no address is configured: one-shot CLI
// runs have nowhere to scrape from.
func startMetrics(addr string, logger *slog.Logger) *metrics.Metrics {
	if addr == "" {
		return nil
	}
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	return m
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// chainFromFlag maps the --chain flag to the domain enumeration.
func chainFromFlag(v string) (wallet.Chain, error) {
	chain := wallet.Chain(v)
	if !chain.Valid() {
		return "", fmt.Errorf("unknown chain %q: expected %s or %s", v, wallet.ChainEthereum, wallet.ChainSolana)
	}
	return chain, nil
}

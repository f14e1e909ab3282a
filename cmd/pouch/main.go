package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "pouch",
		Usage: "dual-chain HD wallet for public test networks",
		Description: `A command-line wallet deriving Ethereum and Solana accounts from a
BIP-39 mnemonic and sending native-asset transfers on each chain's
test network.

Nothing is persisted: every command re-derives accounts from the
mnemonic (flag or POUCH_MNEMONIC env var), and private keys live only
for the life of the process.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			mnemonicCommands(),
			accountCommands(),
			balanceCommand(),
			sendCommand(),
			airdropCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "evm-rpc-url",
				Usage:   "EVM chain RPC endpoint",
				EnvVars: []string{"EVM_RPC_URL"},
			},
			&cli.StringFlag{
				Name:    "solana-rpc-url",
				Usage:   "Solana chain RPC endpoint",
				EnvVars: []string{"SOLANA_RPC_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address while the command runs (e.g. :9090)",
				EnvVars: []string{"METRICS_ADDR"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

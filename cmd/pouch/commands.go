package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pouchwallet/pouch/wallet"
	"github.com/pouchwallet/pouch/wallet/hd"
)

func accountFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "chain",
			Aliases:  []string{"c"},
			Usage:    "Chain to operate on (ethereum or solana)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "mnemonic",
			Aliases:  []string{"m"},
			Usage:    "BIP-39 recovery phrase",
			EnvVars:  []string{"POUCH_MNEMONIC"},
			Required: true,
		},
		&cli.IntFlag{
			Name:    "index",
			Aliases: []string{"i"},
			Usage:   "Derivation index",
			Value:   0,
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Account label",
			Value:   "default",
		},
		&cli.StringFlag{
			Name:  "jq",
			Usage: "jq filter applied to the JSON output",
		},
	}
}

// deriveAccount creates the account the flags describe in the session's
// registry, refreshing its balance from the chain.
func deriveAccount(c *cli.Context, svc *wallet.Service) (*wallet.Account, error) {
	chain, err := chainFromFlag(c.String("chain"))
	if err != nil {
		return nil, err
	}
	return svc.CreateAccount(c.Context, c.String("name"), chain, c.String("mnemonic"), c.Int("index"))
}

func mnemonicCommands() *cli.Command {
	return &cli.Command{
		Name:  "mnemonic",
		Usage: "Recovery phrase commands",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Generate a new 24-word recovery phrase",
				Action: func(c *cli.Context) error {
					mnemonic, err := hd.GenerateMnemonic()
					if err != nil {
						return fmt.Errorf("failed to generate mnemonic: %w", err)
					}
					fmt.Println(mnemonic)
					return nil
				},
			},
		},
	}
}

func accountCommands() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Account derivation commands",
		Subcommands: []*cli.Command{
			{
				Name:    "derive",
				Aliases: []string{"new"},
				Usage:   "Derive an account from the mnemonic at the given index",
				Flags:   accountFlags(),
				Action: func(c *cli.Context) error {
					svc, err := buildService(c)
					if err != nil {
						return err
					}
					acct, err := deriveAccount(c, svc)
					if err != nil {
						return err
					}
					return printOutput(acct, c.String("jq"))
				},
			},
			{
				Name:  "list",
				Usage: "Derive and list the first N accounts on a chain",
				Flags: append(accountFlags(),
					&cli.IntFlag{
						Name:  "count",
						Usage: "How many accounts to derive, starting at index 0",
						Value: 1,
					},
				),
				Action: func(c *cli.Context) error {
					svc, err := buildService(c)
					if err != nil {
						return err
					}
					chain, err := chainFromFlag(c.String("chain"))
					if err != nil {
						return err
					}
					for i := 0; i < c.Int("count"); i++ {
						name := fmt.Sprintf("%s-%d", c.String("name"), i)
						if _, err := svc.CreateAccount(c.Context, name, chain, c.String("mnemonic"), i); err != nil {
							return err
						}
					}
					return printOutput(svc.Registry().Accounts(), c.String("jq"))
				},
			},
		},
	}
}

func balanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "balance",
		Usage: "Show the on-chain balance of a derived account",
		Flags: accountFlags(),
		Action: func(c *cli.Context) error {
			svc, err := buildService(c)
			if err != nil {
				return err
			}
			acct, err := deriveAccount(c, svc)
			if err != nil {
				return err
			}
			return printOutput(map[string]string{
				"id":      acct.ID,
				"address": acct.Address,
				"balance": acct.Balance,
			}, c.String("jq"))
		},
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send native funds from a derived account",
		ArgsUsage: "TO_ADDRESS AMOUNT",
		Flags:     accountFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("recipient address and amount are required")
			}
			to := c.Args().Get(0)
			amount := c.Args().Get(1)

			svc, err := buildService(c)
			if err != nil {
				return err
			}
			acct, err := deriveAccount(c, svc)
			if err != nil {
				return err
			}

			tx, err := svc.Send(c.Context, acct.ID, to, amount)
			if tx != nil {
				if printErr := printOutput(tx, c.String("jq")); printErr != nil {
					return printErr
				}
			}
			return err
		},
	}
}

func airdropCommand() *cli.Command {
	return &cli.Command{
		Name:  "airdrop",
		Usage: "Request test funds for a derived account",
		Flags: accountFlags(),
		Action: func(c *cli.Context) error {
			svc, err := buildService(c)
			if err != nil {
				return err
			}
			acct, err := deriveAccount(c, svc)
			if err != nil {
				return err
			}

			result, err := svc.RequestAirdrop(c.Context, acct.ID)
			if err != nil {
				return err
			}
			return printOutput(map[string]string{
				"id":      acct.ID,
				"address": acct.Address,
				"result":  result,
				"balance": acct.Balance,
			}, c.String("jq"))
		},
	}
}

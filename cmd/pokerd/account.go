package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jesmun04/logbait/internal/config"
	"github.com/jesmun04/logbait/internal/ledger"
)

// DepositCmd adds funds to an account, opening it if needed.
type DepositCmd struct {
	Account string  `arg:"" help:"Account id"`
	Amount  float64 `arg:"" help:"Amount to add"`
}

func (c *DepositCmd) Run(cli *CLI) error {
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	led, err := openLedger(cli.Config)
	if err != nil {
		return err
	}
	defer led.Close()

	ctx := context.Background()
	if err := led.EnsureAccount(ctx, c.Account, c.Account); err != nil {
		return err
	}
	if err := led.Deposit(ctx, c.Account, c.Amount); err != nil {
		return err
	}
	balance, err := led.Balance(ctx, c.Account)
	if err != nil {
		return err
	}
	fmt.Printf("Deposited %.2f to %s, balance %.2f\n", c.Amount, c.Account, balance)
	return nil
}

// AccountCmd prints an account summary.
type AccountCmd struct {
	Account string `arg:"" help:"Account id"`
	Limit   int    `default:"10" help:"Number of transactions to show"`
}

func (c *AccountCmd) Run(cli *CLI) error {
	led, err := openLedger(cli.Config)
	if err != nil {
		return err
	}
	defer led.Close()

	ctx := context.Background()
	balance, err := led.Balance(ctx, c.Account)
	if err != nil {
		return err
	}
	stats, err := led.Stats(ctx, c.Account)
	if err != nil {
		return err
	}
	txs, err := led.Transactions(ctx, c.Account, c.Limit)
	if err != nil {
		return err
	}

	fmt.Printf("Account %s\n", c.Account)
	fmt.Printf("Balance: %.2f\n", balance)
	fmt.Printf("Hands: %d played, %d won, wagered %.2f, won %.2f, net %+.2f\n\n",
		stats.HandsPlayed, stats.HandsWon, stats.TotalWagered, stats.TotalWon, stats.Net())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%+.2f\n", tx.CreatedAt.Format("2006-01-02 15:04:05"), tx.Type, tx.Amount)
	}
	return w.Flush()
}

func openLedger(path string) (*ledger.Ledger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return ledger.Open(cfg.Ledger.Path, cfg.Ledger.StartingBalance)
}

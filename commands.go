package main

import (
	"errors"
	"fmt"

	"github.com/Tallone/solana-burn-cli/burncli/config"
	"github.com/Tallone/solana-burn-cli/burncli/helpers"
	"github.com/Tallone/solana-burn-cli/burncli/session"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/Tallone/solana-burn-cli/burncli/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:   "solana-burn-cli",
		Short: "Burn and close unwanted SPL token accounts",
		Long: `solana-burn-cli lists the SPL token accounts of a wallet, lets you pick
the ones you no longer want and burns their balance and closes them in
batched transactions, returning the rent to the wallet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ApplyEnv(cmd.Flags()); err != nil {
				return err
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, cfg)
		},
	}
	cfg.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newListCmd(cfg), newCloseCmd(cfg))
	return rootCmd
}

func runTUI(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.load(ctx); err != nil {
		return err
	}

	var updates chan uint64
	if cfg.WSSURL != "" {
		updates = make(chan uint64, 1)
		go func() {
			defer close(updates)
			if err := sol.WatchBalance(ctx, cfg.WSSURL, a.session.Wallet.Owner, updates); err != nil {
				a.logger.Warn("balance monitor stopped", zap.Error(err))
			}
		}()
	}

	program := tea.NewProgram(tui.New(ctx, a.session, updates), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	if m, ok := final.(tui.Model); ok && len(m.Results()) > 0 {
		return report(cmd, m.Results())
	}
	return nil
}

func newListCmd(cfg *config.Config) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the wallet's token accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.load(ctx); err != nil {
				return err
			}

			view := a.session.Controller.View
			view.ApplyPredicate(filter)
			t := table.New().Headers("ACCOUNT", "MINT", "BALANCE", "RENT (SOL)")
			for i := 0; i < view.Len(); i++ {
				account := view.Record(i)
				t.Row(
					account.Address.String(),
					account.Mint.String(),
					account.UiBalance,
					helpers.FormatLamports(account.Lamports),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d token accounts\n", view.Len(), a.session.Directory.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only show accounts whose mint contains this text")
	return cmd
}

func newCloseCmd(cfg *config.Config) *cobra.Command {
	var (
		filter string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Burn and close every token account whose mint matches --filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter == "" {
				return errors.New("--filter is required")
			}
			if !yes {
				return errors.New("refusing to burn without --yes")
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.load(ctx); err != nil {
				return err
			}

			matched := a.session.Controller.SelectMatching(filter)
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %d token accounts, reclaiming about %s SOL\n",
				len(matched), helpers.FormatLamports(a.session.Directory.ReclaimableLamports()))

			results, err := a.session.RequestProcessing(ctx)
			if err != nil {
				return err
			}
			return report(cmd, results)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Mint substring selecting the accounts to close")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm burning the selected balances")
	return cmd
}

// report prints one line per unit and fails if any unit did not succeed.
func report(cmd *cobra.Command, results []sol.SubmissionResult) error {
	out := cmd.OutOrStdout()
	for _, result := range results {
		switch {
		case result.OK():
			fmt.Fprintf(out, "unit %d: %s %s\n", result.UnitIndex+1, result.Status, result.Signature)
		default:
			fmt.Fprintf(out, "unit %d: %s: %v\n", result.UnitIndex+1, result.Status, result.Err)
		}
	}
	fmt.Fprintln(out, session.Summary(results))
	if failed := session.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d units failed", len(failed), len(results))
	}
	return nil
}

// Package cmd provides the moneytracker commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moneytracker/internal/app"
	applog "moneytracker/internal/log"
	"moneytracker/internal/prompt"
)

var (
	envFile     string
	backendType string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "moneytracker",
	Short: "Track accounts, categories and transactions across currencies",
	Long: `moneytracker keeps accounts in several currencies, records expenses,
incomes and movements between accounts, and reports where the money went.

Without a subcommand it opens the interactive menu.

Example:
  moneytracker --backend sqlite
  moneytracker report --by source
  moneytracker rates`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := applog.WithContext(cmd.Context(), s.logger)

		exporter, err := s.exporter(ctx)
		if err != nil {
			return err
		}

		a := app.New(app.Deps{
			UI:           prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
			UserName:     s.cfg.UserName,
			Accounts:     s.accounts,
			Categories:   s.categories,
			Currencies:   s.currencies,
			Transactions: s.transactions,
			Exporter:     exporter,
			RateTimeout:  s.cfg.Rates.Timeout,
		})
		return a.Run(ctx)
	},
}

// Execute runs the command selected on the command line.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().StringVar(&backendType, "backend", "", "record store: memory or sqlite (overrides DATA_BACKEND)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(eventsCmd)
}

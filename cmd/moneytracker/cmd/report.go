package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneytracker/internal/prompt"
	"moneytracker/internal/report"
)

var groupBy string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a transaction report",
	Long: `Print the transactions grouped by category, source account or target
account, with counts, density and shares of expenses and income.

Example:
  moneytracker report --by category`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&groupBy, "by", "category", "grouping: category, source or target")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := setup(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	txs, err := s.transactions.GetTransactions(ctx)
	if err != nil {
		return err
	}

	var r report.Report
	switch groupBy {
	case "category":
		categories, err := s.categories.GetAllCategories(ctx)
		if err != nil {
			return err
		}
		r, err = report.ByCategory(txs, categories)
		if err != nil {
			return err
		}
	case "source", "target":
		accounts, err := s.accounts.GetAccounts(ctx)
		if err != nil {
			return err
		}
		if groupBy == "source" {
			r, err = report.BySource(txs, accounts)
		} else {
			r, err = report.ByTarget(txs, accounts)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown grouping %q: use category, source or target", groupBy)
	}

	return prompt.WriteTable(cmd.OutOrStdout(), r.Headers(), r.Rows())
}

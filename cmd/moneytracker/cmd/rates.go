package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneytracker/internal/core"
	"moneytracker/internal/prompt"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Update currency rates from the web and print them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := setup(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.currencies.Refresh(ctx, s.cfg.Rates.Timeout)
		s.rateTraffic.LogMetrics(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %d currencies.\n", n)

		currencies, err := s.currencies.GetCurrencies(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, len(currencies))
		for i, c := range currencies {
			rows[i] = []string{c.Code, c.Name, core.FormatRatio(c.ToBase)}
		}
		return prompt.WriteTable(cmd.OutOrStdout(), []string{"Code", "Name", "To Base"}, rows)
	},
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moneytracker/internal/amqp"
	"moneytracker/internal/cli"
	"moneytracker/internal/worker"
)

var exportOnEvent bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print transaction and account events from the broker until interrupted",
	Long: `Consume the events published by other moneytracker sessions and print them.

With --export every committed transaction or removed account re-exports the
store to the configured Google spreadsheet.

Example:
  moneytracker events --backend sqlite --export`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolVar(&exportOnEvent, "export", false, "re-export to Google Sheets after each event")
}

func runEvents(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if s.backend.Events == nil {
		return errors.New("events are disabled: set AMQP_URL to a reachable broker")
	}

	ctx, stop := cli.ShutdownContext(cmd.Context(), s.logger)
	defer stop()

	var w *worker.ExportWorker
	if exportOnEvent {
		exporter, err := s.exporter(ctx)
		if err != nil {
			return err
		}
		if exporter == nil {
			return errors.New("export is disabled: set GOOGLE_SPREADSHEET_ID")
		}
		w = worker.NewExportWorker(s.transactions, s.accounts, s.categories, exporter)
	}

	out := cmd.OutOrStdout()
	err = s.backend.Events.Consume(ctx, func(e *amqp.Event) error {
		if _, err := fmt.Fprintln(out, e.String()); err != nil {
			return err
		}
		if w == nil {
			return nil
		}
		return w.HandleEvent(ctx, e)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

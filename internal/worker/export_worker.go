// Package worker reacts to broker events outside the interactive session.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"moneytracker/internal/amqp"
	applog "moneytracker/internal/log"
	"moneytracker/internal/services"
	"moneytracker/internal/sheets"
)

// ExportWorker keeps a spreadsheet in step with the store by re-exporting
// every active transaction whenever one is committed or removed.
type ExportWorker struct {
	transactions *services.TransactionService
	accounts     *services.AccountService
	categories   *services.CategoryService
	exporter     sheets.Exporter
}

func NewExportWorker(transactions *services.TransactionService, accounts *services.AccountService, categories *services.CategoryService, exporter sheets.Exporter) *ExportWorker {
	return &ExportWorker{
		transactions: transactions,
		accounts:     accounts,
		categories:   categories,
		exporter:     exporter,
	}
}

// HandleEvent exports after transaction.committed and account.removed. Other
// event types are acknowledged without work.
func (w *ExportWorker) HandleEvent(ctx context.Context, e *amqp.Event) error {
	switch e.Type {
	case amqp.EventTransactionCommitted, amqp.EventAccountRemoved:
	default:
		slog.DebugContext(ctx, "Ignoring event",
			applog.FieldComponent, applog.ComponentSheets,
			"event_id", e.ID,
			"type", e.Type)
		return nil
	}

	slog.InfoContext(ctx, "Processing event",
		applog.FieldComponent, applog.ComponentSheets,
		"event_id", e.ID,
		"type", e.Type)

	n, rng, err := w.Export(ctx)
	if err != nil {
		return fmt.Errorf("export after %s: %w", e.Type, err)
	}
	slog.InfoContext(ctx, "Successfully exported transactions",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, n,
		"range", rng)
	return nil
}

// Export writes the current transactions and returns how many rows were sent.
func (w *ExportWorker) Export(ctx context.Context) (int, string, error) {
	txs, err := w.transactions.GetTransactions(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("get transactions: %w", err)
	}
	accounts, err := w.accounts.GetAllAccounts(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("get accounts: %w", err)
	}
	categories, err := w.categories.GetAllCategories(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("get categories: %w", err)
	}

	rows := sheets.BuildRows(txs, accounts, categories)
	rng, err := w.exporter.Export(ctx, rows)
	if err != nil {
		return 0, "", err
	}
	return len(rows), rng, nil
}

package app

import (
	"context"

	"moneytracker/internal/core"
	"moneytracker/internal/report"
)

func (a *App) seeReport(ctx context.Context) error {
	txs, err := a.transactions.GetTransactions(ctx)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return core.ErrNoTransactions
	}

	options := []string{"By Category", "By Source Account", "By Target Account", goBack}
	for {
		choice, err := a.ui.Select("How should we group your report?", options)
		if err != nil {
			return err
		}
		if choice == len(options)-1 {
			return nil
		}

		r, err := a.build(ctx, choice, txs)
		if err != nil {
			return err
		}
		if len(r.Groups) == 0 {
			a.ui.Notice(noItems)
			continue
		}
		if err := a.ui.Table(r.Headers(), r.Rows()); err != nil {
			return err
		}
	}
}

func (a *App) build(ctx context.Context, choice int, txs []core.Transaction) (report.Report, error) {
	if choice == 0 {
		categories, err := a.categories.GetAllCategories(ctx)
		if err != nil {
			return report.Report{}, err
		}
		return report.ByCategory(txs, categories)
	}

	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return report.Report{}, err
	}
	if choice == 1 {
		return report.BySource(txs, accounts)
	}
	return report.ByTarget(txs, accounts)
}

package app

import (
	"context"
	"slices"

	"moneytracker/internal/core"
)

const (
	kindExpense = iota
	kindIncome
	kindMovement
)

func (a *App) addTransaction(ctx context.Context) error {
	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return core.ErrNeedAccount
	}
	categories, err := a.categories.GetCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return core.ErrNeedCategory
	}

	kind, err := a.ui.Select("What kind of transaction?", []string{"Expense", "Income", "Movement"})
	if err != nil {
		return err
	}

	var source, target *core.Account
	switch kind {
	case kindExpense:
		acct, err := pick(a.ui, "Select the source of the expense.", accounts, accountID)
		if err != nil {
			return err
		}
		source = &acct
	case kindIncome:
		acct, err := pick(a.ui, "Select the target of the income.", accounts, accountID)
		if err != nil {
			return err
		}
		target = &acct
	case kindMovement:
		if len(accounts) < 2 {
			return core.ErrNeedTwoAccounts
		}
		// a failed refresh leaves the stored rates in use
		if err := a.refreshCurrencies(ctx); err != nil {
			a.report(ctx, err)
		}
		src, err := pick(a.ui, "Select the source of the movement.", accounts, accountID)
		if err != nil {
			return err
		}
		rest := slices.DeleteFunc(slices.Clone(accounts), func(x core.Account) bool { return x.ID == src.ID })
		tgt, err := pick(a.ui, "Select the target of the movement.", rest, accountID)
		if err != nil {
			return err
		}
		source, target = &src, &tgt
	}

	question := "How much shall be transferred?"
	if source != nil {
		question += " (Available: " + core.FormatAmount(source.Amount) + ")"
	}
	amount, err := a.ui.AskFloat(question, 0)
	if err != nil {
		return err
	}
	if source != nil && amount > source.Amount {
		return core.ErrInsufficientBalance
	}

	category, err := pick(a.ui, "Select the category of this transaction.", categories, categoryID)
	if err != nil {
		return err
	}
	description, err := a.ui.Ask("Write a description for this transaction.", "")
	if err != nil {
		return err
	}

	tx, err := a.transactions.MakeTransaction(ctx, source, target, amount, category, description)
	if err != nil {
		return err
	}
	rows, err := a.transactions.Summary(ctx, tx)
	if err != nil {
		return err
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.Item, r.Value}
	}
	if err := a.ui.Table([]string{"Item", "Value"}, table); err != nil {
		return err
	}

	ok, err := a.ui.Confirm("Are these OK?")
	if err != nil || !ok {
		return err
	}
	if _, err := a.transactions.CommitTransaction(ctx, tx); err != nil {
		return err
	}
	a.ui.Notice("Transaction saved.")
	return nil
}

// refreshCurrencies pulls fresh rates, waiting at most the configured timeout.
func (a *App) refreshCurrencies(ctx context.Context) error {
	a.ui.Notice("Getting Currencies ...")
	if _, err := a.currencies.Refresh(ctx, a.rateTimeout); err != nil {
		return err
	}
	a.ui.Notice("Updated Currency Database!")
	return nil
}

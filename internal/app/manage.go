package app

import (
	"context"
	"fmt"
	"strings"

	"moneytracker/internal/core"
	"moneytracker/internal/sheets"
)

const manageTitle = "What do you wish to do?"

func (a *App) manageInformation(ctx context.Context) error {
	return a.menu(ctx, manageTitle,
		[]string{"Manage Accounts", "Manage Categories", "Manage Currencies", "See Transactions", "Export to Google Sheets"},
		a.manageAccounts,
		a.manageCategories,
		a.manageCurrencies,
		a.seeTransactions,
		a.exportTransactions,
	)
}

func (a *App) manageAccounts(ctx context.Context) error {
	return a.menu(ctx, manageTitle,
		[]string{"Create Account", "Read Accounts", "Update Account", "Delete Account"},
		a.createAccount,
		a.readAccounts,
		a.updateAccount,
		a.deleteAccount,
	)
}

func (a *App) createAccount(ctx context.Context) error {
	name, err := a.ui.Ask("What's the account's name?", "")
	if err != nil {
		return err
	}
	shortName, err := a.ui.Ask("What's the account's short name?", "")
	if err != nil {
		return err
	}
	description, err := a.ui.Ask("What's the account's description?", "")
	if err != nil {
		return err
	}
	currency, err := a.pickCurrency(ctx)
	if err != nil {
		return err
	}
	money, err := a.ui.AskFloat("What's the account's starting money?", 0)
	if err != nil {
		return err
	}

	ok, err := a.ui.Confirm("Create this account?")
	if err != nil || !ok {
		return err
	}
	if _, err := a.accounts.InsertAccount(ctx, name, shortName, description, currency.Code, money); err != nil {
		return err
	}
	a.ui.Notice(fmt.Sprintf("Account %s created.", name))
	return nil
}

func (a *App) readAccounts(ctx context.Context) error {
	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return err
	}
	return a.listing(itemLine(accounts, accountID))
}

func (a *App) updateAccount(ctx context.Context) error {
	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return err
	}
	selected, err := pick(a.ui, "Select an account to update", accounts, accountID)
	if err != nil {
		return err
	}

	if selected.Name, err = a.ui.Ask("What's the account's name?", selected.Name); err != nil {
		return err
	}
	if selected.ShortName, err = a.ui.Ask("What's the account's short name?", selected.ShortName); err != nil {
		return err
	}
	if selected.Description, err = a.ui.Ask("What's the account's description?", selected.Description); err != nil {
		return err
	}

	change, err := a.ui.Confirm("Change the currency?")
	if err != nil {
		return err
	}
	if change {
		current, err := a.currencies.Get(ctx, selected.CurrencyCode)
		if err != nil {
			return err
		}
		next, err := a.pickCurrency(ctx)
		if err != nil {
			return err
		}
		amount := core.Reprice(selected.Amount, current, next)
		convert, err := a.ui.Confirm(fmt.Sprintf("Convert old currency to new currency? New balance in %s: %s %s",
			next.Name, next.ShortName, core.FormatAmount(amount)))
		if err != nil {
			return err
		}
		if convert {
			selected.Amount = amount
		}
		selected.CurrencyCode = next.Code
	}

	if err := a.accounts.UpdateAccount(ctx, selected); err != nil {
		return err
	}
	a.ui.Notice(fmt.Sprintf("Account %s updated.", selected.Name))
	return nil
}

func (a *App) deleteAccount(ctx context.Context) error {
	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return err
	}
	selected, err := pick(a.ui, "Select an account to delete", accounts, accountID)
	if err != nil {
		return err
	}
	ok, err := a.ui.Confirm(fmt.Sprintf("Delete %s?", selected.Name))
	if err != nil || !ok {
		return err
	}
	removed, err := a.accounts.DeleteAccount(ctx, selected.ID)
	if err != nil {
		return err
	}
	a.ui.Notice(fmt.Sprintf("Account %s deleted along with %d transactions.", selected.Name, removed))
	return nil
}

func (a *App) manageCategories(ctx context.Context) error {
	return a.menu(ctx, manageTitle,
		[]string{"Create Category", "Read Categories", "Update Category", "Delete Category"},
		a.createCategory,
		a.readCategories,
		a.updateCategory,
		a.deleteCategory,
	)
}

func (a *App) createCategory(ctx context.Context) error {
	name, err := a.ui.Ask("What's the category's name?", "")
	if err != nil {
		return err
	}
	shortName, err := a.ui.Ask("What's the category's short name?", "")
	if err != nil {
		return err
	}
	description, err := a.ui.Ask("What's the category's description?", "")
	if err != nil {
		return err
	}
	if _, err := a.categories.InsertCategory(ctx, name, shortName, description); err != nil {
		return err
	}
	a.ui.Notice(fmt.Sprintf("Category %s created.", name))
	return nil
}

func (a *App) readCategories(ctx context.Context) error {
	categories, err := a.categories.GetCategories(ctx)
	if err != nil {
		return err
	}
	return a.listing(itemLine(categories, categoryID))
}

func (a *App) updateCategory(ctx context.Context) error {
	categories, err := a.categories.GetCategories(ctx)
	if err != nil {
		return err
	}
	selected, err := pick(a.ui, "Select a category to update", categories, categoryID)
	if err != nil {
		return err
	}
	if selected.Name, err = a.ui.Ask("What's the category's name?", selected.Name); err != nil {
		return err
	}
	if selected.ShortName, err = a.ui.Ask("What's the category's short name?", selected.ShortName); err != nil {
		return err
	}
	if selected.Description, err = a.ui.Ask("What's the category's description?", selected.Description); err != nil {
		return err
	}
	return a.categories.UpdateCategory(ctx, selected)
}

func (a *App) deleteCategory(ctx context.Context) error {
	categories, err := a.categories.GetCategories(ctx)
	if err != nil {
		return err
	}
	selected, err := pick(a.ui, "Select a category to delete", categories, categoryID)
	if err != nil {
		return err
	}
	ok, err := a.ui.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", selected.Name))
	if err != nil || !ok {
		return err
	}
	return a.categories.DeleteCategory(ctx, selected.ID)
}

func (a *App) manageCurrencies(ctx context.Context) error {
	return a.menu(ctx, manageTitle,
		[]string{"Read Currencies", "Update Currencies from web"},
		a.readCurrencies,
		a.refreshCurrencies,
	)
}

func (a *App) readCurrencies(ctx context.Context) error {
	currencies, err := a.currencies.GetCurrencies(ctx)
	if err != nil {
		return err
	}
	labels := make([]string, len(currencies))
	for i, c := range currencies {
		labels[i] = strings.TrimSpace(fmt.Sprintf("%s - %-3s %s %s", c.Code, c.ShortName, c.Name, c.Description))
	}
	return a.listing(labels)
}

func (a *App) pickCurrency(ctx context.Context) (core.Currency, error) {
	currencies, err := a.currencies.GetCurrencies(ctx)
	if err != nil {
		return core.Currency{}, err
	}
	if len(currencies) == 0 {
		return core.Currency{}, core.ErrNoCurrencies
	}
	return pick(a.ui, "Select the account's Currency", currencies, currencyCode)
}

func (a *App) seeTransactions(ctx context.Context) error {
	txs, err := a.transactions.GetTransactions(ctx)
	if err != nil {
		return err
	}
	return a.listing(itemLine(txs, func(t core.Transaction) string { return fmt.Sprint(t.ID) }))
}

func (a *App) exportTransactions(ctx context.Context) error {
	if a.exporter == nil {
		return core.ErrNotImplemented
	}
	txs, err := a.transactions.GetTransactions(ctx)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return core.ErrNoTransactions
	}
	accounts, err := a.accounts.GetAllAccounts(ctx)
	if err != nil {
		return err
	}
	categories, err := a.categories.GetAllCategories(ctx)
	if err != nil {
		return err
	}

	rng, err := a.exporter.Export(ctx, sheets.BuildRows(txs, accounts, categories))
	if err != nil {
		return fmt.Errorf("export transactions: %w", err)
	}
	a.ui.Notice(fmt.Sprintf("Exported %d transactions to %s.", len(txs), rng))
	return nil
}

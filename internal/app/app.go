// Package app drives the menu tree of the money tracker over a prompt.Surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/prompt"
	"moneytracker/internal/services"
	"moneytracker/internal/sheets"
)

const (
	exitPrompt     = "Press Enter to Exit."
	noItems        = "There are no items"
	goBack         = "Go Back"
	defaultUser    = "Pedro"
	defaultRefresh = 3 * time.Second
)

// Deps are the collaborators of an App. Exporter may be nil.
type Deps struct {
	UI           prompt.Surface
	UserName     string
	Accounts     *services.AccountService
	Categories   *services.CategoryService
	Currencies   *services.CurrencyService
	Transactions *services.TransactionService
	Exporter     sheets.Exporter
	RateTimeout  time.Duration
}

type App struct {
	ui           prompt.Surface
	user         string
	accounts     *services.AccountService
	categories   *services.CategoryService
	currencies   *services.CurrencyService
	transactions *services.TransactionService
	exporter     sheets.Exporter
	rateTimeout  time.Duration
	log          *applog.Logger
}

func New(d Deps) *App {
	user := d.UserName
	if user == "" {
		user = defaultUser
	}
	timeout := d.RateTimeout
	if timeout <= 0 {
		timeout = defaultRefresh
	}
	return &App{
		ui:           d.UI,
		user:         user,
		accounts:     d.Accounts,
		categories:   d.Categories,
		currencies:   d.Currencies,
		transactions: d.Transactions,
		exporter:     d.Exporter,
		rateTimeout:  timeout,
	}
}

// Run shows the main menu until the user picks Exit or aborts. Problems inside
// a screen are shown to the user and the menu is offered again; only a failing
// surface ends Run with an error. Run logs through the logger carried by ctx.
func (a *App) Run(ctx context.Context) error {
	a.log = applog.FromContext(ctx).WithComponent(applog.ComponentApp)
	options := []string{"Add Transaction", "Manage Information", "See a Report", "Exit"}
	title := fmt.Sprintf("Welcome %s! What would you like to do?", a.user)

	for {
		choice, err := a.ui.Select(title, options)
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("main menu: %w", err)
		}

		switch choice {
		case 0:
			err = a.addTransaction(ctx)
		case 1:
			err = a.manageInformation(ctx)
		case 2:
			err = a.seeReport(ctx)
		case len(options) - 1:
			return nil
		}
		a.report(ctx, err)
	}
}

// report shows err to the user. Aborted prompts are silent.
func (a *App) report(ctx context.Context, err error) {
	if err == nil || errors.Is(err, prompt.ErrAborted) {
		return
	}
	if core.IsUserError(err) {
		a.log.DebugContext(ctx, "Action rejected", applog.FieldError, err)
		a.ui.Fail(sentence(err.Error()))
		return
	}
	a.log.ErrorContext(ctx, "Action failed", applog.FieldError, err)
	a.ui.Fail("Something went wrong: " + err.Error())
}

// sentence upper-cases the first letter of msg.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// menu repeats a sub menu whose last option is Go Back. Errors from an
// action are shown and the menu is offered again.
func (a *App) menu(ctx context.Context, title string, options []string, actions ...func(context.Context) error) error {
	options = append(options, goBack)
	for {
		choice, err := a.ui.Select(title, options)
		if err != nil {
			return err
		}
		if choice == len(options)-1 {
			return nil
		}
		if err := actions[choice](ctx); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return err
			}
			a.report(ctx, err)
		}
	}
}

// pick lets the user choose one of items, labelled "<id>. <name>".
func pick[T core.Listable](ui prompt.Surface, title string, items []T, id func(T) string) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, core.ErrNoItems
	}
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = fmt.Sprintf("%s. %s", id(it), it.Item().Name)
	}
	i, err := ui.Select(title, labels)
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

func accountID(a core.Account) string     { return fmt.Sprint(a.ID) }
func categoryID(c core.Category) string   { return fmt.Sprint(c.ID) }
func currencyCode(c core.Currency) string { return c.Code }

// listing shows items as a selection that only waits for Enter.
func (a *App) listing(labels []string) error {
	if len(labels) == 0 {
		labels = []string{noItems}
	}
	_, err := a.ui.Select(exitPrompt, labels)
	return err
}

func itemLine[T core.Listable](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%s %s: %s", id(it), it.Item().Name, it.Item().Description)
	}
	return out
}

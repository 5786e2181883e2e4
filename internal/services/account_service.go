package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/records"
)

// AccountService manages accounts. Removing an account also removes every
// transaction that moved money in or out of it.
type AccountService struct {
	accounts     records.AccountRepository
	transactions records.TransactionRepository
	currencies   records.CurrencyRepository
	publisher    EventPublisher
	now          Clock
}

func NewAccountService(store *records.Store, publisher EventPublisher) *AccountService {
	return &AccountService{
		accounts:     store.Accounts,
		transactions: store.Transactions,
		currencies:   store.Currencies,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *AccountService) InsertAccount(ctx context.Context, name, shortName, description, currencyCode string, startingMoney float64) (core.Account, error) {
	in := accountInput{
		itemInput:     newItemInput(name, shortName, description),
		Currency:      strings.ToUpper(strings.TrimSpace(currencyCode)),
		StartingMoney: startingMoney,
	}
	if err := check(in); err != nil {
		return core.Account{}, err
	}
	if err := s.requireCurrency(ctx, in.Currency); err != nil {
		return core.Account{}, err
	}

	a := core.Account{
		Amount:       in.StartingMoney,
		CurrencyCode: in.Currency,
		ListItem:     core.NewListItem(in.Name, in.ShortName, in.Description, s.now()),
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	stored, err := s.accounts.Insert(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		applog.FieldComponent, applog.ComponentAccount,
		applog.FieldAccountID, stored.ID,
		applog.FieldCurrency, stored.CurrencyCode)
	return stored, nil
}

// UpdateAccount stores the descriptive fields, currency and balance of a. The
// creation time and state of the stored record are kept.
func (s *AccountService) UpdateAccount(ctx context.Context, a core.Account) error {
	in := accountInput{
		itemInput:     newItemInput(a.Name, a.ShortName, a.Description),
		Currency:      strings.ToUpper(strings.TrimSpace(a.CurrencyCode)),
		StartingMoney: a.Amount,
	}
	if err := check(in); err != nil {
		return err
	}
	if err := s.requireCurrency(ctx, in.Currency); err != nil {
		return err
	}

	stored, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if stored.State.IsRemoved() {
		return fmt.Errorf("update account %d: %w", a.ID, records.ErrNotFound)
	}

	stored.Name, stored.ShortName, stored.Description = in.Name, in.ShortName, in.Description
	stored.CurrencyCode = in.Currency
	stored.Amount = a.Amount
	stored.Foreground, stored.Background = a.Foreground, a.Background
	if err := stored.Validate(); err != nil {
		return err
	}

	if err := s.accounts.Update(ctx, stored); err != nil {
		return fmt.Errorf("update account %d: %w", a.ID, err)
	}
	slog.DebugContext(ctx, "Account updated",
		applog.FieldComponent, applog.ComponentAccount,
		applog.FieldAccountID, a.ID)
	return nil
}

// DeleteAccount soft-deletes the account and every active transaction touching
// it, all with the same removal time. It returns how many transactions were removed.
func (s *AccountService) DeleteAccount(ctx context.Context, id int) (int, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if account.State.IsRemoved() {
		return 0, nil
	}

	now := s.now()
	all, err := s.transactions.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	cascaded := 0
	for _, tx := range all {
		if !tx.IsActive() || !tx.Touches(id) {
			continue
		}
		tx.Remove(now)
		if err := s.transactions.Update(ctx, tx); err != nil {
			return cascaded, fmt.Errorf("remove transaction %d: %w", tx.ID, err)
		}
		cascaded++
	}

	account.Remove(now)
	if err := s.accounts.Update(ctx, account); err != nil {
		return cascaded, fmt.Errorf("remove account %d: %w", id, err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentAccount).
		WithOperation(applog.OpDelete).
		WithAccount(id)
	fields[applog.FieldCount] = cascaded
	slog.InfoContext(ctx, "Account removed", fields.ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishAccountRemoved(ctx, id, cascaded); err != nil {
			slog.ErrorContext(ctx, "Failed to publish account removal",
				applog.FieldAccountID, id, applog.FieldError, err)
		}
	}
	return cascaded, nil
}

// GetAccounts returns the active accounts in store order.
func (s *AccountService) GetAccounts(ctx context.Context) ([]core.Account, error) {
	all, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return active(all), nil
}

// GetAllAccounts includes removed accounts, for labelling old transactions.
func (s *AccountService) GetAllAccounts(ctx context.Context) ([]core.Account, error) {
	all, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return all, nil
}

func (s *AccountService) Get(ctx context.Context, id int) (core.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return a, nil
}

// Count returns the number of active accounts.
func (s *AccountService) Count(ctx context.Context) (int, error) {
	accounts, err := s.GetAccounts(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

// Stored counts every account record, removed ones included.
func (s *AccountService) Stored(ctx context.Context) (int, error) {
	accounts, err := s.GetAllAccounts(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

func (s *AccountService) requireCurrency(ctx context.Context, code string) error {
	if _, err := s.currencies.Get(ctx, code); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return fmt.Errorf("%w: %s", core.ErrUnknownCurrency, code)
		}
		return fmt.Errorf("get currency %s: %w", code, err)
	}
	return nil
}

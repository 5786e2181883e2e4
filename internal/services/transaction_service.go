package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/records"
)

type currencyGetter interface {
	Get(ctx context.Context, code string) (core.Currency, error)
}

// TransactionService proposes and commits transactions. A proposal is a pure
// value; only CommitTransaction touches the store.
type TransactionService struct {
	transactions records.TransactionRepository
	accounts     records.AccountRepository
	categories   records.CategoryRepository
	currencies   currencyGetter
	publisher    EventPublisher
	now          Clock
}

func NewTransactionService(store *records.Store, currencies *CurrencyService, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		transactions: store.Transactions,
		accounts:     store.Accounts,
		categories:   store.Categories,
		currencies:   currencies,
		publisher:    publisher,
		now:          time.Now,
	}
}

// MakeTransaction builds an unsaved transaction. The rate converts the source
// currency into the target currency and is 1 unless both sides are present.
// The source balance is not checked here.
func (s *TransactionService) MakeTransaction(ctx context.Context, source, target *core.Account, amount float64, category core.Category, description string) (core.Transaction, error) {
	tx := core.Transaction{
		Amount:     amount,
		Rate:       1,
		CategoryID: category.ID,
	}
	if source != nil {
		tx.SourceID = source.ID
	}
	if target != nil {
		tx.TargetID = target.ID
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if source != nil && target != nil {
		rate, err := s.rate(ctx, source.CurrencyCode, target.CurrencyCode)
		if err != nil {
			return core.Transaction{}, err
		}
		tx.Rate = rate
	}

	tx.ListItem = core.NewListItem(category.Name, string(tx.Kind()), description, s.now())
	return tx, nil
}

func (s *TransactionService) rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	src, err := s.currencies.Get(ctx, from)
	if err != nil {
		return 0, err
	}
	tgt, err := s.currencies.Get(ctx, to)
	if err != nil {
		return 0, err
	}
	return src.ToBase / tgt.ToBase, nil
}

// CommitTransaction applies tx to the stored balances and records it. The
// source balance is read again from the store, so a proposal made against a
// stale copy cannot overdraw the account. The account updates and the insert
// are not atomic.
func (s *TransactionService) CommitTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var source, target core.Account
	if tx.HasSource() {
		a, err := s.activeAccount(ctx, tx.SourceID)
		if err != nil {
			return core.Transaction{}, err
		}
		if tx.Amount > a.Amount {
			return core.Transaction{}, core.ErrInsufficientBalance
		}
		source = a
	}
	if tx.HasTarget() {
		a, err := s.activeAccount(ctx, tx.TargetID)
		if err != nil {
			return core.Transaction{}, err
		}
		target = a
	}

	if tx.HasSource() {
		source.Amount -= tx.Amount
		if err := s.accounts.Update(ctx, source); err != nil {
			return core.Transaction{}, fmt.Errorf("update source account %d: %w", source.ID, err)
		}
	}
	if tx.HasTarget() {
		target.Amount += tx.Converted()
		if err := s.accounts.Update(ctx, target); err != nil {
			return core.Transaction{}, fmt.Errorf("update target account %d: %w", target.ID, err)
		}
	}

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}
	stored, err := s.transactions.Insert(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction committed", applog.NewFields().
		WithComponent(applog.ComponentTransaction).
		WithOperation(applog.OpCommit).
		WithTransaction(stored.ID, string(stored.Kind()), stored.Amount, stored.Rate).
		ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCommitted(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction",
				applog.FieldTransaction, stored.ID, applog.FieldError, err)
		}
	}
	return stored, nil
}

func (s *TransactionService) activeAccount(ctx context.Context, id int) (core.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	if a.State.IsRemoved() {
		return core.Account{}, core.ValidationError{Msg: fmt.Sprintf("account %q has been removed", a.Name)}
	}
	return a, nil
}

// GetTransactions returns the active transactions in store order.
func (s *TransactionService) GetTransactions(ctx context.Context) ([]core.Transaction, error) {
	all, err := s.transactions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return active(all), nil
}

func (s *TransactionService) Count(ctx context.Context) (int, error) {
	txs, err := s.GetTransactions(ctx)
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}

// Summary resolves the records tx refers to and lists what committing it would do.
func (s *TransactionService) Summary(ctx context.Context, tx core.Transaction) ([]core.SummaryRow, error) {
	category, err := s.categories.Get(ctx, tx.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", tx.CategoryID, err)
	}

	var source, target *core.Account
	if tx.HasSource() {
		a, err := s.accounts.Get(ctx, tx.SourceID)
		if err != nil {
			return nil, fmt.Errorf("get account %d: %w", tx.SourceID, err)
		}
		source = &a
	}
	if tx.HasTarget() {
		a, err := s.accounts.Get(ctx, tx.TargetID)
		if err != nil {
			return nil, fmt.Errorf("get account %d: %w", tx.TargetID, err)
		}
		target = &a
	}
	return core.Summarize(tx, category, source, target), nil
}

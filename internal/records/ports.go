package records

import (
	"context"
	"errors"

	"moneytracker/internal/core"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Ports for record storage adapters.
type (
	// Repository keeps records of one type. Insert assigns the key when the
	// store owns key generation and returns the stored record.
	Repository[K comparable, T any] interface {
		Insert(ctx context.Context, v T) (T, error)
		Update(ctx context.Context, v T) error
		Get(ctx context.Context, key K) (T, error)
		// GetAll returns every record, removed ones included.
		GetAll(ctx context.Context) ([]T, error)
	}

	AccountRepository     = Repository[int, core.Account]
	CategoryRepository    = Repository[int, core.Category]
	CurrencyRepository    = Repository[string, core.Currency]
	TransactionRepository = Repository[int, core.Transaction]
)

// Store bundles the repositories of one backend.
type Store struct {
	Accounts     AccountRepository
	Categories   CategoryRepository
	Currencies   CurrencyRepository
	Transactions TransactionRepository
}

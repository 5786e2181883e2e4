package memory

import (
	"context"
	"fmt"
	"sync"

	"moneytracker/internal/core"
	"moneytracker/internal/records"
)

// Keyed is a record that knows its own key.
type Keyed[K comparable] interface {
	Key() K
}

// Repository is an in-memory records.Repository. GetAll returns records in
// insertion order. Data is lost when the process exits.
type Repository[K comparable, T Keyed[K]] struct {
	mu     sync.Mutex
	items  map[K]T
	order  []K
	seq    int
	assign func(*T, int)
}

// NewSequential returns a repository that assigns increasing integer keys starting at 1.
func NewSequential[T Keyed[int]](assign func(*T, int)) *Repository[int, T] {
	return &Repository[int, T]{items: make(map[int]T), assign: assign}
}

// NewKeyed returns a repository for records that carry their own key.
func NewKeyed[K comparable, T Keyed[K]]() *Repository[K, T] {
	return &Repository[K, T]{items: make(map[K]T)}
}

// Insert stores v and returns it with its key.
func (r *Repository[K, T]) Insert(_ context.Context, v T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assign != nil {
		r.seq++
		r.assign(&v, r.seq)
	}
	k := v.Key()
	if _, ok := r.items[k]; ok {
		var zero T
		return zero, fmt.Errorf("insert %v: %w", k, records.ErrDuplicate)
	}
	r.items[k] = v
	r.order = append(r.order, k)
	return v, nil
}

// Update replaces the stored record with the same key.
func (r *Repository[K, T]) Update(_ context.Context, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := v.Key()
	if _, ok := r.items[k]; !ok {
		return fmt.Errorf("update %v: %w", k, records.ErrNotFound)
	}
	r.items[k] = v
	return nil
}

func (r *Repository[K, T]) Get(_ context.Context, key K) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %v: %w", key, records.ErrNotFound)
	}
	return v, nil
}

func (r *Repository[K, T]) GetAll(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.items[k])
	}
	return out, nil
}

// Size returns the number of stored records.
func (r *Repository[K, T]) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Ensure interface conformance
var (
	_ records.AccountRepository     = (*Repository[int, core.Account])(nil)
	_ records.CategoryRepository    = (*Repository[int, core.Category])(nil)
	_ records.CurrencyRepository    = (*Repository[string, core.Currency])(nil)
	_ records.TransactionRepository = (*Repository[int, core.Transaction])(nil)
)

// New returns a Store backed by memory.
func New() *records.Store {
	return &records.Store{
		Accounts:     NewSequential((*core.Account).SetKey),
		Categories:   NewSequential((*core.Category).SetKey),
		Currencies:   NewKeyed[string, core.Currency](),
		Transactions: NewSequential((*core.Transaction).SetKey),
	}
}

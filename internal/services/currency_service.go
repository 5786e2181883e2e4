package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"moneytracker/internal/cache"
	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/records"
)

const ratesCacheKey = "latest"

// RateSource returns the current conversion rates of every known currency.
type RateSource interface {
	Fetch(ctx context.Context) ([]core.Currency, error)
}

// CurrencyService keeps the currency table in sync with a RateSource.
type CurrencyService struct {
	currencies records.CurrencyRepository
	source     RateSource
	snapshots  cache.Cache[[]core.Currency]
	now        Clock
}

// NewCurrencyService wires the repository to a rate source. Both source and
// snapshots may be nil: without a source Refresh fails, without a cache every
// refresh hits the source.
func NewCurrencyService(store *records.Store, source RateSource, snapshots cache.Cache[[]core.Currency]) *CurrencyService {
	return &CurrencyService{
		currencies: store.Currencies,
		source:     source,
		snapshots:  snapshots,
		now:        time.Now,
	}
}

// GetCurrencies returns the active currencies sorted by code.
func (s *CurrencyService) GetCurrencies(ctx context.Context) ([]core.Currency, error) {
	all, err := s.currencies.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	out := active(all)
	slices.SortFunc(out, func(a, b core.Currency) int { return strings.Compare(a.Code, b.Code) })
	return out, nil
}

// Get returns ErrUnknownCurrency when code is not stored.
func (s *CurrencyService) Get(ctx context.Context, code string) (core.Currency, error) {
	c, err := s.currencies.Get(ctx, code)
	if errors.Is(err, records.ErrNotFound) {
		return core.Currency{}, fmt.Errorf("%w: %s", core.ErrUnknownCurrency, code)
	}
	if err != nil {
		return core.Currency{}, fmt.Errorf("get currency %s: %w", code, err)
	}
	return c, nil
}

func (s *CurrencyService) Count(ctx context.Context) (int, error) {
	all, err := s.GetCurrencies(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Seed inserts the currencies that are not stored yet and returns how many were added.
func (s *CurrencyService) Seed(ctx context.Context, currencies []core.Currency) (int, error) {
	added := 0
	for _, c := range currencies {
		if err := c.Validate(); err != nil {
			return added, fmt.Errorf("seed currency %s: %w", c.Code, err)
		}
		_, err := s.currencies.Get(ctx, c.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, records.ErrNotFound) {
			return added, fmt.Errorf("get currency %s: %w", c.Code, err)
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now()
		}
		if _, err := s.currencies.Insert(ctx, c); err != nil {
			return added, fmt.Errorf("seed currency %s: %w", c.Code, err)
		}
		added++
	}
	if added > 0 {
		slog.DebugContext(ctx, "Seeded currencies",
			applog.FieldComponent, applog.ComponentCurrency,
			applog.FieldOperation, applog.OpSeed,
			applog.FieldCount, added)
	}
	return added, nil
}

type fetchResult struct {
	currencies []core.Currency
	err        error
}

// Refresh fetches the rate table and upserts it, waiting at most timeout. On
// failure nothing is written and the error is an *core.ExternalServiceError.
// A fetch still running when the deadline passes delivers into a buffer
// nobody reads, so it cannot write either.
func (s *CurrencyService) Refresh(ctx context.Context, timeout time.Duration) (int, error) {
	fetched, err := s.fetch(ctx, timeout)
	if err != nil {
		slog.WarnContext(ctx, "Currency refresh failed",
			applog.FieldComponent, applog.ComponentCurrency,
			applog.FieldOperation, applog.OpRefresh,
			applog.FieldError, err)
		return 0, err
	}

	start := s.now()
	for _, c := range fetched {
		if err := s.upsert(ctx, c); err != nil {
			return 0, err
		}
	}

	slog.InfoContext(ctx, "Currencies refreshed",
		applog.FieldComponent, applog.ComponentCurrency,
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldCount, len(fetched),
		applog.FieldDuration, s.now().Sub(start).Milliseconds())
	return len(fetched), nil
}

func (s *CurrencyService) fetch(ctx context.Context, timeout time.Duration) ([]core.Currency, error) {
	const op = "could not get currencies"

	if s.snapshots != nil {
		if cached, ok := s.snapshots.Get(ratesCacheKey); ok {
			return cached, nil
		}
	}
	if s.source == nil {
		return nil, &core.ExternalServiceError{Op: op, Err: core.ErrNotImplemented}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		currencies, err := s.source.Fetch(ctx)
		done <- fetchResult{currencies: currencies, err: err}
	}()

	var res fetchResult
	select {
	case <-ctx.Done():
		return nil, &core.ExternalServiceError{Op: op, Err: ctx.Err()}
	case res = <-done:
	}
	if res.err != nil {
		return nil, &core.ExternalServiceError{Op: op, Err: res.err}
	}
	if len(res.currencies) == 0 {
		return nil, &core.ExternalServiceError{Op: op, Err: errors.New("rate source returned no currencies")}
	}
	for _, c := range res.currencies {
		if err := c.Validate(); err != nil {
			return nil, &core.ExternalServiceError{Op: op, Err: fmt.Errorf("currency %q: %w", c.Code, err)}
		}
	}

	if s.snapshots != nil {
		s.snapshots.Set(ratesCacheKey, slices.Clone(res.currencies))
	}
	return res.currencies, nil
}

func (s *CurrencyService) upsert(ctx context.Context, fetched core.Currency) error {
	stored, err := s.currencies.Get(ctx, fetched.Code)
	if errors.Is(err, records.ErrNotFound) {
		if fetched.CreatedAt.IsZero() {
			fetched.CreatedAt = s.now()
		}
		if _, err := s.currencies.Insert(ctx, fetched); err != nil {
			return fmt.Errorf("insert currency %s: %w", fetched.Code, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get currency %s: %w", fetched.Code, err)
	}

	stored.ToBase = fetched.ToBase
	if fetched.Name != "" {
		stored.Name = fetched.Name
	}
	if err := s.currencies.Update(ctx, stored); err != nil {
		return fmt.Errorf("update currency %s: %w", fetched.Code, err)
	}
	return nil
}

// Package seed bootstraps an empty store from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/services"
)

// File is the YAML layout of a seed file.
type File struct {
	Currencies []CurrencyEntry `yaml:"currencies"`
	Categories []ItemEntry     `yaml:"categories"`
	Accounts   []AccountEntry  `yaml:"accounts"`
}

type ItemEntry struct {
	Name        string `yaml:"name"`
	ShortName   string `yaml:"short_name"`
	Description string `yaml:"description"`
}

type CurrencyEntry struct {
	Code   string  `yaml:"code"`
	Name   string  `yaml:"name"`
	ToBase float64 `yaml:"to_base"`
}

type AccountEntry struct {
	ItemEntry `yaml:",inline"`
	Currency  string  `yaml:"currency"`
	Amount    float64 `yaml:"amount"`
}

// Builtin is used when no seed file exists so the tool works offline.
// Rates are approximate and meant to be refreshed.
func Builtin() File {
	return File{Currencies: []CurrencyEntry{
		{Code: "USD", Name: "United States Dollar", ToBase: 1},
		{Code: "EUR", Name: "Euro", ToBase: 1.08},
		{Code: "GBP", Name: "British Pound", ToBase: 1.27},
		{Code: "JPY", Name: "Japanese Yen", ToBase: 0.0067},
		{Code: "DOP", Name: "Dominican Peso", ToBase: 0.017},
	}}
}

// Load reads path. A missing file yields Builtin and no error.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Builtin(), nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Currencies) == 0 {
		f.Currencies = Builtin().Currencies
	}
	return f, nil
}

// CurrencyRecords converts the currency entries to records created at now.
func (f File) CurrencyRecords(now time.Time) []core.Currency {
	out := make([]core.Currency, 0, len(f.Currencies))
	for _, c := range f.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		name := c.Name
		if name == "" {
			name = code
		}
		out = append(out, core.Currency{
			Code:     code,
			ToBase:   c.ToBase,
			ListItem: core.NewListItem(name, code, "", now),
		})
	}
	return out
}

// Services are the operations Apply writes through.
type Services struct {
	Accounts   *services.AccountService
	Categories *services.CategoryService
	Currencies *services.CurrencyService
}

// Apply seeds missing currencies, and categories and accounts only when the
// store has never held any. Removed records count, so deleting the seeded
// ones does not bring them back on the next start.
func Apply(ctx context.Context, svc Services, f File, now time.Time) error {
	added, err := svc.Currencies.Seed(ctx, f.CurrencyRecords(now))
	if err != nil {
		return err
	}

	n, err := svc.Categories.Stored(ctx)
	if err != nil {
		return err
	}
	categories := 0
	if n == 0 {
		for _, c := range f.Categories {
			if _, err := svc.Categories.InsertCategory(ctx, c.Name, c.ShortName, c.Description); err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			categories++
		}
	}

	n, err = svc.Accounts.Stored(ctx)
	if err != nil {
		return err
	}
	accounts := 0
	if n == 0 {
		for _, a := range f.Accounts {
			if _, err := svc.Accounts.InsertAccount(ctx, a.Name, a.ShortName, a.Description, a.Currency, a.Amount); err != nil {
				return fmt.Errorf("seed account %q: %w", a.Name, err)
			}
			accounts++
		}
	}

	slog.DebugContext(ctx, "Seed applied",
		applog.FieldComponent, applog.ComponentApp,
		applog.FieldOperation, applog.OpSeed,
		"currencies", added,
		"categories", categories,
		"accounts", accounts)
	return nil
}

package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"moneytracker/internal/records/memory"
	"moneytracker/internal/services"
)

const sample = `
currencies:
  - code: usd
    name: US Dollar
    to_base: 1
  - code: EUR
    to_base: 1.1
categories:
  - name: Food
    short_name: FD
  - name: Salary
accounts:
  - name: Wallet
    currency: USD
    amount: 40
`

func newServices() Services {
	store := memory.New()
	return Services{
		Accounts:   services.NewAccountService(store, nil),
		Categories: services.NewCategoryService(store),
		Currencies: services.NewCurrencyService(store, nil, nil),
	}
}

func TestLoadMissingFileUsesBuiltin(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Currencies) != 5 || len(f.Accounts) != 0 {
		t.Fatalf("unexpected builtin seed: %+v", f)
	}
}

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	svc := newServices()
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if err := Apply(ctx, svc, f, now); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	currencies, _ := svc.Currencies.GetCurrencies(ctx)
	if len(currencies) != 2 || currencies[0].Code != "EUR" || currencies[1].Name != "US Dollar" {
		t.Fatalf("currencies = %+v", currencies)
	}
	if currencies[0].Name != "EUR" || !currencies[0].CreatedAt.Equal(now) {
		t.Errorf("EUR = %+v", currencies[0])
	}
	if n, _ := svc.Categories.Count(ctx); n != 2 {
		t.Errorf("categories = %d", n)
	}
	accounts, _ := svc.Accounts.GetAccounts(ctx)
	if len(accounts) != 1 || accounts[0].Amount != 40 || accounts[0].CurrencyCode != "USD" {
		t.Errorf("accounts = %+v", accounts)
	}

	if err := Apply(ctx, svc, f, now); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if n, _ := svc.Accounts.Count(ctx); n != 1 {
		t.Errorf("seeding twice duplicated accounts: %d", n)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("currencies: [")); err == nil {
		t.Fatal("expected YAML error")
	}

	f, err := Parse([]byte("accounts:\n  - name: Bank\n    currency: XYZ\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Apply(context.Background(), newServices(), f, time.Now()); err == nil {
		t.Fatal("account with unknown currency should fail")
	}
}

func TestApplyKeepsRemovedRecordsRemoved(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ctx := context.Background()
	svc := newServices()
	if err := Apply(ctx, svc, f, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	categories, _ := svc.Categories.GetCategories(ctx)
	for _, c := range categories {
		if err := svc.Categories.DeleteCategory(ctx, c.ID); err != nil {
			t.Fatalf("DeleteCategory(%d): %v", c.ID, err)
		}
	}
	accounts, _ := svc.Accounts.GetAccounts(ctx)
	for _, a := range accounts {
		if _, err := svc.Accounts.DeleteAccount(ctx, a.ID); err != nil {
			t.Fatalf("DeleteAccount(%d): %v", a.ID, err)
		}
	}

	if err := Apply(ctx, svc, f, time.Now()); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	tests := []struct {
		name          string
		count, stored func(context.Context) (int, error)
		wantStored    int
	}{
		{"categories", svc.Categories.Count, svc.Categories.Stored, 2},
		{"accounts", svc.Accounts.Count, svc.Accounts.Stored, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, err := tt.count(ctx)
			if err != nil {
				t.Fatal(err)
			}
			stored, err := tt.stored(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if active != 0 || stored != tt.wantStored {
				t.Errorf("active=%d stored=%d, want active=0 stored=%d", active, stored, tt.wantStored)
			}
		})
	}
}

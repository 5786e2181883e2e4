package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.34", 12.34, false},
		{"12,34", 12.34, false},
		{" 7 ", 7, false},
		{"0", 0, false},
		{"12.345", 12.35, false},
		{"12.344", 12.34, false},
		{".5", 0.5, false},
		{"", 0, true},
		{"-1", 0, true},
		{"+1", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"1e2", 100, false},
		{"1e400", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) = %v, %v; want ErrInvalidAmount", tt.in, got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(18.181818); got != "18.18" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatAmount(50); got != "50.00" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatAmount(math.NaN()); got != "n/a" {
		t.Fatalf("FormatAmount(NaN) = %q", got)
	}
	if got := FormatRatio(1.0 / 1.1); got != "0.9091" {
		t.Fatalf("FormatRatio = %q", got)
	}
}

func TestReprice(t *testing.T) {
	usd := Currency{Code: "USD", ToBase: 1}
	eur := Currency{Code: "EUR", ToBase: 1.1}
	got := Reprice(110, usd, eur)
	if math.Abs(got-100) > 1e-9 {
		t.Fatalf("Reprice USD->EUR = %v, want 100", got)
	}
	if back := Reprice(got, eur, usd); math.Abs(back-110) > 1e-9 {
		t.Fatalf("Reprice EUR->USD = %v, want 110", back)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	cat := Category{ID: 1, ListItem: NewListItem("Food", "", "", now)}
	a := Account{ID: 1, Amount: 100, CurrencyCode: "USD", ListItem: NewListItem("A", "", "", now)}
	b := Account{ID: 2, Amount: 0, CurrencyCode: "EUR", ListItem: NewListItem("B", "", "", now)}

	t.Run("expense hides rate", func(t *testing.T) {
		tx := Transaction{SourceID: 1, Amount: 30, Rate: 1, CategoryID: 1}
		rows := Summarize(tx, cat, &a, nil)
		want := []string{"Transaction Category", "Source Account", "Outgoing Amount", "New Source Balance"}
		if len(rows) != len(want) {
			t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
		}
		for i, w := range want {
			if rows[i].Item != w {
				t.Errorf("row %d = %q, want %q", i, rows[i].Item, w)
			}
		}
		if rows[3].Value != "70.00" {
			t.Errorf("new source balance = %q, want 70.00", rows[3].Value)
		}
	})

	t.Run("movement shows rate and incoming", func(t *testing.T) {
		tx := Transaction{SourceID: 1, TargetID: 2, Amount: 20, Rate: 1.0 / 1.1, CategoryID: 1, ListItem: ListItem{Description: "fx"}}
		rows := Summarize(tx, cat, &a, &b)
		byItem := map[string]string{}
		for _, r := range rows {
			byItem[r.Item] = r.Value
		}
		if byItem["Transaction Rate"] != "0.9091" {
			t.Errorf("rate = %q", byItem["Transaction Rate"])
		}
		if byItem["Incoming Amount"] != "18.18" {
			t.Errorf("incoming = %q", byItem["Incoming Amount"])
		}
		if byItem["New Target Balance"] != "18.18" {
			t.Errorf("new target balance = %q", byItem["New Target Balance"])
		}
		if byItem["Description"] != "fx" {
			t.Errorf("description = %q", byItem["Description"])
		}
	})
}

package core

import (
	"math"
	"strings"
)

// NoAccount is the account key of a missing transaction side. Store keys start at 1.
const NoAccount = 0

// Kind classifies a transaction by the sides it touches.
type Kind string

const (
	Expense  Kind = "expense"
	Income   Kind = "income"
	Movement Kind = "movement"
)

type (
	// Currency is keyed by its code. ToBase is how many base units one unit is worth.
	Currency struct {
		Code   string
		ToBase float64
		ListItem
	}

	// Account holds a balance denominated in its own currency, never in base units.
	Account struct {
		ID           int
		Amount       float64
		CurrencyCode string
		ListItem
	}

	Category struct {
		ID int
		ListItem
	}

	// Transaction moves Amount out of the source account and Amount*Rate into the
	// target account. Amount is in the source currency, or base units for incomes.
	// The free-text description lives in the embedded ListItem.
	Transaction struct {
		ID         int
		SourceID   int
		TargetID   int
		Amount     float64
		Rate       float64
		CategoryID int
		ListItem
	}
)

func (c Currency) Key() string { return c.Code }
func (a Account) Key() int     { return a.ID }
func (c Category) Key() int    { return c.ID }
func (t Transaction) Key() int { return t.ID }

func (a *Account) SetKey(id int)     { a.ID = id }
func (c *Category) SetKey(id int)    { c.ID = id }
func (t *Transaction) SetKey(id int) { t.ID = id }

func (c Currency) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ValidationError{Msg: "empty currency code"}
	}
	if !finite(c.ToBase) || c.ToBase <= 0 {
		return ErrInvalidRate
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.CurrencyCode) == "" {
		return ErrUnknownCurrency
	}
	if !finite(a.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// HasSource reports whether money leaves an account.
func (t Transaction) HasSource() bool { return t.SourceID != NoAccount }

// HasTarget reports whether money enters an account.
func (t Transaction) HasTarget() bool { return t.TargetID != NoAccount }

// Kind returns the classification of t. A transaction with no side has no kind.
func (t Transaction) Kind() Kind {
	switch {
	case t.HasSource() && t.HasTarget():
		return Movement
	case t.HasSource():
		return Expense
	case t.HasTarget():
		return Income
	}
	return ""
}

// Converted is the amount credited to the target, Amount*Rate.
func (t Transaction) Converted() float64 {
	return t.Amount * t.Rate
}

// Touches reports whether the account is the source or the target of t.
func (t Transaction) Touches(accountID int) bool {
	return accountID != NoAccount && (t.SourceID == accountID || t.TargetID == accountID)
}

func (t Transaction) Validate() error {
	if !t.HasSource() && !t.HasTarget() {
		return ErrNoAccounts
	}
	if t.HasSource() && t.SourceID == t.TargetID {
		return ErrSameAccount
	}
	if !finite(t.Amount) || t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !finite(t.Rate) || t.Rate <= 0 {
		return ErrInvalidRate
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

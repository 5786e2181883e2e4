// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts typed by the user and
// formatting balances for display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a non-negative amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
//	ParseAmount("1e400")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, _ := d.Round(2).Float64()
	if !finite(f) {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(f float64) string {
	if !finite(f) {
		return "n/a"
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// FormatRatio renders rates and shares, which need more precision than money.
func FormatRatio(f float64) string {
	if !finite(f) {
		return "n/a"
	}
	return decimal.NewFromFloat(f).Round(4).String()
}

// Reprice converts a balance from one currency to another: amount * from.ToBase / to.ToBase.
// Callers apply it only after the user confirms the conversion.
func Reprice(amount float64, from, to Currency) float64 {
	return amount * from.ToBase / to.ToBase
}

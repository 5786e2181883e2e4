// Package report aggregates transactions by category, source account or target account.
package report

import (
	"fmt"
	"strconv"

	"moneytracker/internal/core"
)

// Dimension is what transactions are grouped by.
type Dimension int

const (
	ByCategoryDimension Dimension = iota
	BySourceDimension
	ByTargetDimension
)

func (d Dimension) String() string {
	switch d {
	case ByCategoryDimension:
		return "category"
	case BySourceDimension:
		return "source account"
	case ByTargetDimension:
		return "target account"
	}
	return "unknown"
}

// Group is one row of a report.
//
// Density is Count divided by the number of groups in the report, not by the
// number of transactions. Shares are relative to the totals of every
// transaction passed in, and are 0 when that total is 0.
type Group struct {
	Key          int
	Name         string
	Count        int
	Density      float64
	Expenses     float64
	ExpenseShare float64
	Income       float64
	IncomeShare  float64
}

type Report struct {
	Dimension     Dimension
	Groups        []Group
	TotalExpenses float64
	TotalIncome   float64
}

// ByCategory groups every transaction by its category. Categories missing from
// the slice are named by key.
func ByCategory(txs []core.Transaction, categories []core.Category) (Report, error) {
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return build(ByCategoryDimension, txs, names,
		func(t core.Transaction) (int, bool) { return t.CategoryID, true })
}

// BySource groups the transactions that take money out of an account.
func BySource(txs []core.Transaction, accounts []core.Account) (Report, error) {
	return build(BySourceDimension, txs, accountNames(accounts),
		func(t core.Transaction) (int, bool) { return t.SourceID, t.HasSource() })
}

// ByTarget groups the transactions that put money into an account.
func ByTarget(txs []core.Transaction, accounts []core.Account) (Report, error) {
	return build(ByTargetDimension, txs, accountNames(accounts),
		func(t core.Transaction) (int, bool) { return t.TargetID, t.HasTarget() })
}

func accountNames(accounts []core.Account) map[int]string {
	names := make(map[int]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names
}

func build(dim Dimension, txs []core.Transaction, names map[int]string, key func(core.Transaction) (int, bool)) (Report, error) {
	if len(txs) == 0 {
		return Report{}, core.ErrNoTransactions
	}

	r := Report{Dimension: dim}
	for _, t := range txs {
		r.TotalExpenses += expense(t)
		r.TotalIncome += income(t)
	}

	index := make(map[int]int)
	for _, t := range txs {
		k, ok := key(t)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(r.Groups)
			index[k] = i
			r.Groups = append(r.Groups, Group{Key: k, Name: groupName(names, k)})
		}
		g := &r.Groups[i]
		g.Count++
		g.Expenses += expense(t)
		g.Income += income(t)
	}

	n := float64(len(r.Groups))
	for i := range r.Groups {
		g := &r.Groups[i]
		g.Density = ratio(float64(g.Count), n)
		g.ExpenseShare = ratio(g.Expenses, r.TotalExpenses)
		g.IncomeShare = ratio(g.Income, r.TotalIncome)
	}
	return r, nil
}

func expense(t core.Transaction) float64 {
	if t.HasTarget() {
		return 0
	}
	return t.Converted()
}

func income(t core.Transaction) float64 {
	if t.HasSource() {
		return 0
	}
	return t.Converted()
}

func ratio(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

func groupName(names map[int]string, key int) string {
	if name, ok := names[key]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", key)
}

// Headers returns the column titles for the report's dimension.
func (r Report) Headers() []string {
	switch r.Dimension {
	case BySourceDimension:
		return []string{"Account", "Count", "Density", "Expenses", "Expense Share"}
	case ByTargetDimension:
		return []string{"Account", "Count", "Density", "Income", "Income Share"}
	}
	return []string{"Category", "Count", "Density", "Expenses", "Expense Share", "Income", "Income Share"}
}

// Rows formats the groups in the column order of Headers.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		row := []string{g.Name, strconv.Itoa(g.Count), core.FormatRatio(g.Density)}
		switch r.Dimension {
		case BySourceDimension:
			row = append(row, core.FormatAmount(g.Expenses), core.FormatRatio(g.ExpenseShare))
		case ByTargetDimension:
			row = append(row, core.FormatAmount(g.Income), core.FormatRatio(g.IncomeShare))
		default:
			row = append(row,
				core.FormatAmount(g.Expenses), core.FormatRatio(g.ExpenseShare),
				core.FormatAmount(g.Income), core.FormatRatio(g.IncomeShare))
		}
		rows = append(rows, row)
	}
	return rows
}

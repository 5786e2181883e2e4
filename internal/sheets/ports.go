// Package sheets turns transactions into spreadsheet rows for export.
package sheets

import (
	"context"
	"time"

	"moneytracker/internal/core"
)

// Exporter replaces the contents of a sheet with rows and returns the updated range.
type Exporter interface {
	Export(ctx context.Context, rows []Row) (string, error)
}

// Header is the first exported line.
var Header = []any{"ID", "Date", "Kind", "Category", "Source", "Target", "Amount", "Rate", "Converted", "Description"}

// Row is one exported transaction with its references resolved to names.
type Row struct {
	ID          int
	Date        time.Time
	Kind        core.Kind
	Category    string
	Source      string
	Target      string
	Amount      float64
	Rate        float64
	Converted   float64
	Description string
}

// Values returns the cells of r in Header order.
func (r Row) Values() []any {
	return []any{
		r.ID,
		r.Date.Format(time.DateOnly),
		string(r.Kind),
		r.Category,
		r.Source,
		r.Target,
		r.Amount,
		r.Rate,
		r.Converted,
		r.Description,
	}
}

// BuildRows resolves account and category names. Pass every record, removed
// ones included, so old transactions keep their labels.
func BuildRows(txs []core.Transaction, accounts []core.Account, categories []core.Category) []Row {
	accountNames := make(map[int]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	rows := make([]Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, Row{
			ID:          t.ID,
			Date:        t.CreatedAt,
			Kind:        t.Kind(),
			Category:    categoryNames[t.CategoryID],
			Source:      accountNames[t.SourceID],
			Target:      accountNames[t.TargetID],
			Amount:      t.Amount,
			Rate:        t.Rate,
			Converted:   t.Converted(),
			Description: t.Description,
		})
	}
	return rows
}

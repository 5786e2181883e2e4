package core

// SummaryRow is one line of the preview shown before a transaction is committed.
type SummaryRow struct {
	Item  string
	Value string
}

// Summarize previews the effect of committing t. source and target may be nil.
func Summarize(t Transaction, category Category, source, target *Account) []SummaryRow {
	rows := []SummaryRow{{Item: "Transaction Category", Value: category.Name}}
	if source != nil {
		rows = append(rows,
			SummaryRow{Item: "Source Account", Value: source.Name},
			SummaryRow{Item: "Outgoing Amount", Value: FormatAmount(t.Amount)},
			SummaryRow{Item: "New Source Balance", Value: FormatAmount(source.Amount - t.Amount)},
		)
	}
	if t.Rate != 1 {
		rows = append(rows, SummaryRow{Item: "Transaction Rate", Value: FormatRatio(t.Rate)})
	}
	if target != nil {
		incoming := t.Converted()
		rows = append(rows,
			SummaryRow{Item: "Target Account", Value: target.Name},
			SummaryRow{Item: "Incoming Amount", Value: FormatAmount(incoming)},
			SummaryRow{Item: "New Target Balance", Value: FormatAmount(target.Amount + incoming)},
		)
	}
	if t.Description != "" {
		rows = append(rows, SummaryRow{Item: "Description", Value: t.Description})
	}
	return rows
}

package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldAccountID   = "account_id"
	FieldCategoryID  = "category_id"
	FieldTransaction = "transaction_id"
	FieldKind        = "kind"
	FieldAmount      = "amount"
	FieldRate        = "rate"
	FieldCurrency    = "currency"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentTransaction = "transaction"
	ComponentAccount     = "account"
	ComponentCategory    = "category"
	ComponentCurrency    = "currency"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentSheets      = "sheets"
	ComponentRates       = "rates"
	ComponentBackend     = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpCommit   = "commit"
	OpRefresh  = "refresh"
	OpExport   = "export"
	OpSeed     = "seed"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the fields describing a posted transaction.
func (f LogFields) WithTransaction(id int, kind string, amount, rate float64) LogFields {
	f[FieldTransaction] = id
	f[FieldKind] = kind
	f[FieldAmount] = amount
	f[FieldRate] = rate
	return f
}

func (f LogFields) WithAccount(id int) LogFields {
	f[FieldAccountID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

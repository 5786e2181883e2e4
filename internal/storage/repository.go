package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneytracker/internal/core"
	"moneytracker/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps every record type in one SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Store exposes the database through the record ports.
func (r *SQLiteRepository) Store() *records.Store {
	return &records.Store{
		Accounts:     &accountTable{db: r.db},
		Categories:   &categoryTable{db: r.db},
		Currencies:   &currencyTable{db: r.db},
		Transactions: &transactionTable{db: r.db},
	}
}

// Columns of the embedded list item, in scan order.
const itemColumns = "name, short_name, description, created_at, removed_at, foreground, background"

type scanner interface {
	Scan(dest ...any) error
}

// itemFields returns the bind arguments matching itemColumns.
func itemFields(it core.ListItem) []any {
	var removed sql.NullString
	if at, ok := it.State.RemovedAt(); ok {
		removed = sql.NullString{String: formatTime(at), Valid: true}
	}
	return []any{
		it.Name,
		it.ShortName,
		it.Description,
		formatTime(it.CreatedAt),
		removed,
		string(it.Foreground),
		string(it.Background),
	}
}

// itemScan holds the scan destinations for itemColumns.
type itemScan struct {
	name, shortName, description string
	createdAt                    string
	removedAt                    sql.NullString
	fg, bg                       string
}

func (s *itemScan) dest() []any {
	return []any{&s.name, &s.shortName, &s.description, &s.createdAt, &s.removedAt, &s.fg, &s.bg}
}

func (s *itemScan) item() (core.ListItem, error) {
	created, err := parseTime(s.createdAt)
	if err != nil {
		return core.ListItem{}, fmt.Errorf("parse created_at: %w", err)
	}
	it := core.ListItem{
		Name:        s.name,
		ShortName:   s.shortName,
		Description: s.description,
		CreatedAt:   created,
		State:       core.Active(),
		Foreground:  core.Color(s.fg),
		Background:  core.Color(s.bg),
	}
	if s.removedAt.Valid {
		at, err := parseTime(s.removedAt.String)
		if err != nil {
			return core.ListItem{}, fmt.Errorf("parse removed_at: %w", err)
		}
		it.State = core.RemovedAt(at)
	}
	return it, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullID(id int) sql.NullInt64 {
	if id == core.NoAccount {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

// checkAffected turns an update that touched no row into records.ErrNotFound.
func checkAffected(res sql.Result, what string, key any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %v: %w", what, key, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %v: %w", what, key, records.ErrNotFound)
	}
	return nil
}

func notFound(err error, what string, key any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get %s %v: %w", what, key, records.ErrNotFound)
	}
	return fmt.Errorf("get %s %v: %w", what, key, err)
}

type accountTable struct{ db *sql.DB }

const accountColumns = "id, amount, currency_code, " + itemColumns

func scanAccount(row scanner) (core.Account, error) {
	var a core.Account
	var it itemScan
	if err := row.Scan(append([]any{&a.ID, &a.Amount, &a.CurrencyCode}, it.dest()...)...); err != nil {
		return core.Account{}, err
	}
	item, err := it.item()
	if err != nil {
		return core.Account{}, err
	}
	a.ListItem = item
	return a, nil
}

func (t *accountTable) Insert(ctx context.Context, a core.Account) (core.Account, error) {
	args := append([]any{a.Amount, a.CurrencyCode}, itemFields(a.ListItem)...)
	res, err := t.db.ExecContext(ctx,
		"INSERT INTO accounts (amount, currency_code, "+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", args...)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	a.ID = int(id)
	slog.DebugContext(ctx, "Account saved to SQLite", "id", a.ID, "name", a.Name)
	return a, nil
}

func (t *accountTable) Update(ctx context.Context, a core.Account) error {
	args := append([]any{a.Amount, a.CurrencyCode}, itemFields(a.ListItem)...)
	args = append(args, a.ID)
	res, err := t.db.ExecContext(ctx, `UPDATE accounts SET amount = ?, currency_code = ?,
		name = ?, short_name = ?, description = ?, created_at = ?, removed_at = ?, foreground = ?, background = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update account %d: %w", a.ID, err)
	}
	return checkAffected(res, "account", a.ID)
}

func (t *accountTable) Get(ctx context.Context, id int) (core.Account, error) {
	a, err := scanAccount(t.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if err != nil {
		return core.Account{}, notFound(err, "account", id)
	}
	return a, nil
}

func (t *accountTable) GetAll(ctx context.Context) ([]core.Account, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type categoryTable struct{ db *sql.DB }

const categoryColumns = "id, " + itemColumns

func scanCategory(row scanner) (core.Category, error) {
	var c core.Category
	var it itemScan
	if err := row.Scan(append([]any{&c.ID}, it.dest()...)...); err != nil {
		return core.Category{}, err
	}
	item, err := it.item()
	if err != nil {
		return core.Category{}, err
	}
	c.ListItem = item
	return c, nil
}

func (t *categoryTable) Insert(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := t.db.ExecContext(ctx,
		"INSERT INTO categories ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)", itemFields(c.ListItem)...)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID = int(id)
	return c, nil
}

func (t *categoryTable) Update(ctx context.Context, c core.Category) error {
	args := append(itemFields(c.ListItem), c.ID)
	res, err := t.db.ExecContext(ctx, `UPDATE categories SET
		name = ?, short_name = ?, description = ?, created_at = ?, removed_at = ?, foreground = ?, background = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return checkAffected(res, "category", c.ID)
}

func (t *categoryTable) Get(ctx context.Context, id int) (core.Category, error) {
	c, err := scanCategory(t.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if err != nil {
		return core.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

func (t *categoryTable) GetAll(ctx context.Context) ([]core.Category, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type currencyTable struct{ db *sql.DB }

const currencyColumns = "code, to_base, " + itemColumns

func scanCurrency(row scanner) (core.Currency, error) {
	var c core.Currency
	var it itemScan
	if err := row.Scan(append([]any{&c.Code, &c.ToBase}, it.dest()...)...); err != nil {
		return core.Currency{}, err
	}
	item, err := it.item()
	if err != nil {
		return core.Currency{}, err
	}
	c.ListItem = item
	return c, nil
}

func (t *currencyTable) Insert(ctx context.Context, c core.Currency) (core.Currency, error) {
	args := append([]any{c.Code, c.ToBase}, itemFields(c.ListItem)...)
	_, err := t.db.ExecContext(ctx,
		"INSERT INTO currencies (code, to_base, "+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", args...)
	if err != nil {
		var exists int
		if qerr := t.db.QueryRowContext(ctx, "SELECT 1 FROM currencies WHERE code = ?", c.Code).Scan(&exists); qerr == nil {
			return core.Currency{}, fmt.Errorf("insert currency %s: %w", c.Code, records.ErrDuplicate)
		}
		return core.Currency{}, fmt.Errorf("insert currency %s: %w", c.Code, err)
	}
	return c, nil
}

func (t *currencyTable) Update(ctx context.Context, c core.Currency) error {
	args := append([]any{c.ToBase}, itemFields(c.ListItem)...)
	args = append(args, c.Code)
	res, err := t.db.ExecContext(ctx, `UPDATE currencies SET to_base = ?,
		name = ?, short_name = ?, description = ?, created_at = ?, removed_at = ?, foreground = ?, background = ?
		WHERE code = ?`, args...)
	if err != nil {
		return fmt.Errorf("update currency %s: %w", c.Code, err)
	}
	return checkAffected(res, "currency", c.Code)
}

func (t *currencyTable) Get(ctx context.Context, code string) (core.Currency, error) {
	c, err := scanCurrency(t.db.QueryRowContext(ctx, "SELECT "+currencyColumns+" FROM currencies WHERE code = ?", code))
	if err != nil {
		return core.Currency{}, notFound(err, "currency", code)
	}
	return c, nil
}

func (t *currencyTable) GetAll(ctx context.Context) ([]core.Currency, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT "+currencyColumns+" FROM currencies ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []core.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type transactionTable struct{ db *sql.DB }

const transactionColumns = "id, source_id, target_id, amount, rate, category_id, " + itemColumns

func scanTransaction(row scanner) (core.Transaction, error) {
	var tx core.Transaction
	var source, target sql.NullInt64
	var it itemScan
	dest := append([]any{&tx.ID, &source, &target, &tx.Amount, &tx.Rate, &tx.CategoryID}, it.dest()...)
	if err := row.Scan(dest...); err != nil {
		return core.Transaction{}, err
	}
	if source.Valid {
		tx.SourceID = int(source.Int64)
	}
	if target.Valid {
		tx.TargetID = int(target.Int64)
	}
	item, err := it.item()
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ListItem = item
	return tx, nil
}

func (t *transactionTable) Insert(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	args := append([]any{nullID(tx.SourceID), nullID(tx.TargetID), tx.Amount, tx.Rate, tx.CategoryID}, itemFields(tx.ListItem)...)
	res, err := t.db.ExecContext(ctx,
		"INSERT INTO transactions (source_id, target_id, amount, rate, category_id, "+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", args...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = int(id)
	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", tx.ID, "amount", tx.Amount, "rate", tx.Rate)
	return tx, nil
}

func (t *transactionTable) Update(ctx context.Context, tx core.Transaction) error {
	args := append([]any{nullID(tx.SourceID), nullID(tx.TargetID), tx.Amount, tx.Rate, tx.CategoryID}, itemFields(tx.ListItem)...)
	args = append(args, tx.ID)
	res, err := t.db.ExecContext(ctx, `UPDATE transactions SET source_id = ?, target_id = ?, amount = ?, rate = ?, category_id = ?,
		name = ?, short_name = ?, description = ?, created_at = ?, removed_at = ?, foreground = ?, background = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	return checkAffected(res, "transaction", tx.ID)
}

func (t *transactionTable) Get(ctx context.Context, id int) (core.Transaction, error) {
	tx, err := scanTransaction(t.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id))
	if err != nil {
		return core.Transaction{}, notFound(err, "transaction", id)
	}
	return tx, nil
}

func (t *transactionTable) GetAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Ensure interface conformance
var (
	_ records.AccountRepository     = (*accountTable)(nil)
	_ records.CategoryRepository    = (*categoryTable)(nil)
	_ records.CurrencyRepository    = (*currencyTable)(nil)
	_ records.TransactionRepository = (*transactionTable)(nil)
)

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/caltrack/backend/internal/domain"
)

// MemoryDSN is an in-memory SQLite database
const MemoryDSN = ":memory:"

const targetSettingKey = "daily_target"

// SQLiteStore keeps daily entries in SQLite. AUTOINCREMENT keeps food ids
// monotonic for the lifetime of the database file.
type SQLiteStore struct {
	db            *sql.DB
	defaultTarget int
}

// NewSQLiteStore opens dsn and creates the schema if needed
func NewSQLiteStore(dsn string, defaultTarget int) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	if defaultTarget <= 0 {
		defaultTarget = domain.DefaultTarget
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database is private to its connection,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, defaultTarget: defaultTarget}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS daily_entries (
        date TEXT PRIMARY KEY,
        target INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS food_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        entry_date TEXT NOT NULL,
        meal_type TEXT NOT NULL,
        name TEXT NOT NULL,
        amount TEXT NOT NULL,
        calories INTEGER NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        FOREIGN KEY (entry_date) REFERENCES daily_entries(date) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS settings (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_food_items_entry_date ON food_items(entry_date);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDailyEntry(ctx context.Context, date string) (*domain.DailyEntry, error) {
	var target int
	err := s.db.QueryRowContext(ctx, `SELECT target FROM daily_entries WHERE date = ?`, date).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}

	entries := map[string]*domain.DailyEntry{date: domain.NewDailyEntry(date, target)}
	if err := s.loadItems(ctx, `WHERE entry_date = ?`, []interface{}{date}, entries); err != nil {
		return nil, err
	}
	return entries[date], nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]domain.DailyEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, target FROM daily_entries ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	var order []string
	entries := make(map[string]*domain.DailyEntry)
	for rows.Next() {
		var date string
		var target int
		if err := rows.Scan(&date, &target); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		order = append(order, date)
		entries[date] = domain.NewDailyEntry(date, target)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	rows.Close()

	if err := s.loadItems(ctx, "", nil, entries); err != nil {
		return nil, err
	}

	list := make([]domain.DailyEntry, 0, len(order))
	for _, date := range order {
		list = append(list, *entries[date])
	}
	return list, nil
}

func (s *SQLiteStore) AddFoodItem(ctx context.Context, date string, meal domain.MealType, item domain.FoodItem) (*domain.DailyEntry, error) {
	if _, err := domain.ParseMealType(string(meal)); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	target, err := s.target(ctx, tx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_entries (date, target) VALUES (?, ?)`, date, target); err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO food_items (entry_date, meal_type, name, amount, calories, notes)
        VALUES (?, ?, ?, ?, ?, ?)`,
		date, string(meal), item.Name, item.Amount, item.Calories, item.Notes); err != nil {
		return nil, fmt.Errorf("failed to insert food: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return s.GetDailyEntry(ctx, date)
}

func (s *SQLiteStore) RemoveFoodItem(ctx context.Context, date string, meal domain.MealType, foodID int) (*domain.DailyEntry, error) {
	if _, err := s.GetDailyEntry(ctx, date); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM food_items WHERE entry_date = ? AND meal_type = ? AND id = ?`,
		date, string(meal), foodID); err != nil {
		return nil, fmt.Errorf("failed to delete food: %w", err)
	}
	return s.GetDailyEntry(ctx, date)
}

func (s *SQLiteStore) GetDailyTarget(ctx context.Context) (int, error) {
	return s.target(ctx, s.db)
}

func (s *SQLiteStore) SetDailyTarget(ctx context.Context, target int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO settings (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		targetSettingKey, strconv.Itoa(target)); err != nil {
		return fmt.Errorf("failed to store target: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE daily_entries SET target = ?`, target); err != nil {
		return fmt.Errorf("failed to update entry targets: %w", err)
	}
	return tx.Commit()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *SQLiteStore) target(ctx context.Context, q queryRower) (int, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, targetSettingKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaultTarget, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query target: %w", err)
	}
	target, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid stored target %q: %w", value, err)
	}
	return target, nil
}

// loadItems appends food items matching where to their entries, in id order
func (s *SQLiteStore) loadItems(ctx context.Context, where string, args []interface{}, entries map[string]*domain.DailyEntry) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, entry_date, meal_type, name, amount, calories, notes
        FROM food_items `+where+`
        ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.FoodItem
		var date, meal string
		if err := rows.Scan(&item.ID, &date, &meal, &item.Name, &item.Amount, &item.Calories, &item.Notes); err != nil {
			return fmt.Errorf("failed to scan food: %w", err)
		}
		entry, ok := entries[date]
		if !ok {
			continue
		}
		if bucket := entry.Meal(domain.MealType(meal)); bucket != nil {
			bucket.Items = append(bucket.Items, item)
		}
	}
	return rows.Err()
}

// Package storage persists the ledger to SQLite. The ledger itself stays
// the single source of truth in memory; this repository mirrors mutations
// and replays them at startup.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tracker/internal/core"
	"tracker/internal/ledger"

	_ "modernc.org/sqlite"
)

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

// SaveTransaction upserts a transaction row under its ledger-assigned id.
func (r *SQLiteRepository) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, amount_cents, category, description, account)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			amount_cents = excluded.amount_cents,
			category = excluded.category,
			description = excluded.description,
			account = excluded.account,
			sync_status = 'pending',
			synced_at = NULL
	`, tx.ID, tx.Date.Format(time.DateOnly), tx.Amount.Cents, tx.Category, tx.Description, tx.Account)
	if err != nil {
		return fmt.Errorf("save transaction %d: %w", tx.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// GetTransaction loads a single row, used by the sync worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, amount_cents, category, description, account
		FROM transactions WHERE id = ?
	`, id)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, kind) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind
	`, c.Name, string(c.Kind))
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete category %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) SaveBudget(ctx context.Context, category string, monthly core.Money) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category, monthly_cents) VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET monthly_cents = excluded.monthly_cents
	`, category, monthly.Cents)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", category, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, category string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE category = ?`, category); err != nil {
		return fmt.Errorf("delete budget %s: %w", category, err)
	}
	return nil
}

// Restore rebuilds a ledger from the persisted rows: categories first so
// explicitly registered kinds survive, then transactions with their
// original ids, then budgets.
func (r *SQLiteRepository) Restore(ctx context.Context, led *ledger.Ledger) error {
	catRows, err := r.db.QueryContext(ctx, `SELECT name, kind FROM categories ORDER BY name`)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var c core.Category
		var kind string
		if err := catRows.Scan(&c.Name, &kind); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.CategoryKind(kind)
		if err := led.AddCategory(c); err != nil {
			return fmt.Errorf("restore category %s: %w", c.Name, err)
		}
	}
	if err := catRows.Err(); err != nil {
		return fmt.Errorf("iterate categories: %w", err)
	}

	txRows, err := r.db.QueryContext(ctx, `
		SELECT id, date, amount_cents, category, description, account
		FROM transactions ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	defer txRows.Close()
	var txs []core.Transaction
	for txRows.Next() {
		tx, err := scanTransaction(txRows)
		if err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := txRows.Err(); err != nil {
		return fmt.Errorf("iterate transactions: %w", err)
	}
	if err := led.Restore(txs); err != nil {
		return fmt.Errorf("restore transactions: %w", err)
	}

	budgetRows, err := r.db.QueryContext(ctx, `SELECT category, monthly_cents FROM budgets`)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	defer budgetRows.Close()
	for budgetRows.Next() {
		var category string
		var cents int64
		if err := budgetRows.Scan(&category, &cents); err != nil {
			return fmt.Errorf("scan budget: %w", err)
		}
		if err := led.SetBudget(category, core.Money{Cents: cents}); err != nil {
			return fmt.Errorf("restore budget %s: %w", category, err)
		}
	}
	return budgetRows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var tx core.Transaction
	var date string
	if err := s.Scan(&tx.ID, &date, &tx.Amount.Cents, &tx.Category, &tx.Description, &tx.Account); err != nil {
		return core.Transaction{}, err
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	tx.Date = core.DateOf(t)
	return tx, nil
}

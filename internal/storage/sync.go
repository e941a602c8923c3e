package storage

import (
	"context"
	"fmt"
	"time"

	"tracker/internal/core"
)

// Sync state for the export worker. Rows start out pending, move to synced
// once mirrored to the sheet, and to error when an append fails so the
// periodic resync can retry them.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// GetPendingSync returns up to limit transactions that still need to be
// mirrored, oldest first. Rows that previously failed are included.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, amount_cents, category, description, account
		FROM transactions
		WHERE sync_status IN (?, ?)
		ORDER BY id
		LIMIT ?
	`, SyncStatusPending, SyncStatusError, limit)
	if err != nil {
		return nil, fmt.Errorf("load pending transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ?
	`, SyncStatusSynced, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ?, synced_at = NULL WHERE id = ?
	`, SyncStatusError, id); err != nil {
		return fmt.Errorf("mark sync error %d: %w", id, err)
	}
	return nil
}

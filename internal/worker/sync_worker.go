package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/sheets"
	"tracker/internal/storage"
)

// SyncWorker mirrors ledger transactions from SQLite to the export sheet.
// It reacts to AMQP messages and periodically sweeps for rows the messages
// missed.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	appender  sheets.RowAppender
	remover   sheets.RowRemover
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender sheets.RowAppender, remover sheets.RowRemover, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		appender:  appender,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"deleted", msg.Deleted)

	if msg.Deleted {
		return w.removeFromSheet(ctx, msg.ID)
	}

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Removed between publish and consume; clear any exported row.
		slog.WarnContext(ctx, "Transaction gone before sync, clearing row", "id", msg.ID)
		return w.removeFromSheet(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.syncToSheet(ctx, tx)
}

// ProcessPending sweeps rows that never made it to the sheet. This is a
// backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, tx := range pending {
		if err := w.syncToSheet(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", tx.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup. It
// uses a larger batch to recover quickly from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, tx := range pending {
		if err := w.syncToSheet(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", tx.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

// RunPeriodicSweep calls ProcessPending every interval until ctx is done.
func (w *SyncWorker) RunPeriodicSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sweep failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncToSheet(ctx context.Context, tx core.Transaction) error {
	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
		// The append worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Synced transaction",
		"id", tx.ID,
		"sheets_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (w *SyncWorker) removeFromSheet(ctx context.Context, id int64) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No row remover configured, skipping sheet removal", "id", id)
		return nil
	}
	if err := w.remover.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove row from sheet: %w", err)
	}
	slog.InfoContext(ctx, "Removed transaction row from sheet", "id", id)
	return nil
}

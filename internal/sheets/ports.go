package sheets

import (
	"context"

	"tracker/internal/core"
)

// Ports for outbound adapters.
type (
	RowAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// RowRemover clears the exported row for a transaction that was
	// removed from the ledger.
	RowRemover interface {
		Remove(ctx context.Context, id int64) error
	}
)

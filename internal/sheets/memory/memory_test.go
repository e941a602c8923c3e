package memory

import (
	"context"
	"testing"

	"tracker/internal/core"
)

func TestAppendAndRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{ID: 1, Date: core.NewDate(2024, 1, 1), Amount: core.Money{Cents: -500}, Category: "Food", Account: "default"}
	ref, err := s.Append(ctx, tx)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("unexpected ref %q", ref)
	}

	// Re-appending the same id overwrites.
	tx.Description = "groceries"
	if _, err := s.Append(ctx, tx); err != nil {
		t.Fatalf("re-append: %v", err)
	}
	rows := s.Rows()
	if len(rows) != 1 || rows[1].Description != "groceries" {
		t.Fatalf("expected single overwritten row, got %+v", rows)
	}

	if err := s.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(s.Rows()) != 0 {
		t.Fatal("expected empty store after remove")
	}

	// Removing an absent id is a no-op.
	if err := s.Remove(ctx, 99); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	bad := core.Transaction{ID: 1, Amount: core.Money{Cents: 100}}
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatal("expected validation error for zero date")
	}
}

package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2024, 3, 15, 18, 30, 12, 0, time.UTC))
	want := NewDate(2024, 3, 15)
	if !got.Equal(want.Time) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCategoryKindValidate(t *testing.T) {
	for _, k := range []CategoryKind{KindIncome, KindExpense, KindTransfer, ""} {
		if err := k.Validate(); err != nil {
			t.Fatalf("kind %q expected valid, got %v", k, err)
		}
	}
	if err := CategoryKind("stocks").Validate(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     NewDate(2024, 1, 1),
		Amount:   Money{Cents: -1500},
		Category: "Groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}, Category: "  "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

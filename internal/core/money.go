// Package core defines the canonical ledger entities and money handling.
//
// This file contains functions for parsing monetary amounts from raw
// spreadsheet cells and converting between cents and decimal values.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Symbols stripped from raw amounts before numeric parsing.
const currencySymbols = "$€£¥₱"

// ParseAmountToCents converts a raw amount string to signed cents.
//
// It strips currency symbols, spaces and thousands separators, accepts
// both dot (12.34) and comma (12,34) decimal marks, a leading sign, and
// accounting parentheses ("(12.34)" -> -1234). Half-up rounding is applied
// on the third decimal place. Zero is a valid result; callers that care
// about zero amounts flag them separately.
//
// Examples:
//
//	ParseAmountToCents("12.34")     -> 1234, nil
//	ParseAmountToCents("-12,34")    -> -1234, nil
//	ParseAmountToCents("$1,234.50") -> 123450, nil
//	ParseAmountToCents("(7.00)")    -> -700, nil
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(currencySymbols, r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	s = normalizeSeparators(s)

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	var iv int64
	for _, r := range intPart {
		d := int64(r - '0')
		if iv > ((1<<63-1)-d)/10 {
			return 0, ErrInvalidAmount
		}
		iv = iv*10 + d
	}
	// Take the first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	// Prevent overflow when scaling to cents, fractional part included.
	if iv > ((1<<63-1)-fracCents)/100 {
		return 0, ErrInvalidAmount
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}

// normalizeSeparators rewrites s so that '.' is the only decimal mark and
// thousands separators are removed. When both ',' and '.' occur, the one
// appearing later is the decimal mark. A lone comma followed by exactly
// three digits is treated as a thousands separator.
func normalizeSeparators(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if dot > comma {
			return strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-comma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	default:
		return s
	}
}

// Decimal returns the exact value in major currency units.
// Exporters apply their own display precision.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// IsExpense reports whether the amount flows out (negative cents).
func (m Money) IsExpense() bool {
	return m.Cents < 0
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String formats the amount with two decimals for logs and debugging.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

package report

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/fugevet/fintrack/internal/platform/transaction"
)

// TypeFilter selects which transaction types are kept
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

// ParseTypeFilter accepts "all", "income" or "expense" (any case); empty means all
func ParseTypeFilter(s string) (TypeFilter, bool) {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterIncome:
		return FilterIncome, true
	case FilterExpense:
		return FilterExpense, true
	}
	return FilterAll, false
}

func (f TypeFilter) keeps(t transaction.Type) bool {
	switch f {
	case FilterIncome:
		return t == transaction.TypeIncome
	case FilterExpense:
		return t == transaction.TypeExpense
	default:
		return true
	}
}

// Filter returns the transactions matching the type filter and the free-text
// query, preserving order. The query is matched case-insensitively as a
// substring of description, payee or payment method; a blank query matches
// everything. txs is never modified.
func Filter(txs []transaction.Transaction, typ TypeFilter, query string) []transaction.Transaction {
	q := strings.TrimSpace(query)
	folder := cases.Fold()
	if q != "" {
		q = folder.String(q)
	}

	out := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !typ.keeps(tx.Type) {
			continue
		}
		if q != "" && !matches(folder, tx, q) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matches(folder cases.Caser, tx transaction.Transaction, q string) bool {
	for _, field := range []string{tx.Description, tx.Payee, tx.PaymentMethod} {
		if field != "" && strings.Contains(folder.String(field), q) {
			return true
		}
	}
	return false
}

package report

import (
	"github.com/shopspring/decimal"

	"github.com/fugevet/fintrack/internal/platform/transaction"
)

// Totals holds signed sums. Expense is <= 0 and Balance = Income + Expense.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ComputeTotals sums amounts by type
func ComputeTotals(txs []transaction.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(tx.Amount)
		case transaction.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Add(expense),
	}
}

// Bars is the income/expense bar chart data, both clamped to >= 0
type Bars struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// IncomeExpenseBars turns totals into bar heights
func IncomeExpenseBars(t Totals) Bars {
	return Bars{
		Income:  decimal.Max(decimal.Zero, t.Income),
		Expense: t.Expense.Abs(),
	}
}

// Summary is what the dashboard shows: the filtered rows and their totals
type Summary struct {
	Transactions []transaction.Transaction
	Totals       Totals
}

// Summarize filters txs and totals the result
func Summarize(txs []transaction.Transaction, typ TypeFilter, query string) Summary {
	filtered := Filter(txs, typ, query)
	return Summary{
		Transactions: filtered,
		Totals:       ComputeTotals(filtered),
	}
}

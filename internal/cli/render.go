package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/internal/report"
	"github.com/fugevet/fintrack/pkg/money"
)

// Screen colors
const (
	colorIncome  = lipgloss.Color("#28a745")
	colorExpense = lipgloss.Color("#dc3545")
	colorBalance = lipgloss.Color("#007bff")
	colorMuted   = lipgloss.Color("#6c757d")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	incomeStyle  = lipgloss.NewStyle().Foreground(colorIncome).Bold(true)
	expenseStyle = lipgloss.NewStyle().Foreground(colorExpense).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorIncome).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorExpense).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func amountStyle(tx transaction.Transaction) lipgloss.Style {
	if tx.IsIncome() {
		return incomeStyle
	}
	return expenseStyle
}

// renderCards draws the income, expense and balance summary side by side
func renderCards(f *money.Formatter, t report.Totals) string {
	card := func(label string, style lipgloss.Style, value string) string {
		return cardStyle.Render(mutedStyle.Render(label) + "\n" + style.Render(value))
	}
	balanceStyle := lipgloss.NewStyle().Foreground(colorBalance).Bold(true)
	if t.Balance.IsNegative() {
		balanceStyle = expenseStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Income", incomeStyle, f.Signed(t.Income)),
		card("Expense", expenseStyle, f.Signed(t.Expense)),
		card("Balance", balanceStyle, f.Signed(t.Balance)),
	)
}

// renderRows draws one line per transaction
func renderRows(f *money.Formatter, txs []transaction.Transaction) string {
	if len(txs) == 0 {
		return mutedStyle.Render("No transactions found.") + "\n"
	}

	var b strings.Builder
	for _, tx := range txs {
		detail := tx.PaymentMethod
		if tx.Payee != "" {
			detail = tx.Payee + " - " + tx.PaymentMethod
		}
		date := "-"
		if !tx.Date.IsZero() {
			date = tx.Date.Format("02.01.2006")
		}
		fmt.Fprintf(&b, "%s  %s  %s\n   %s\n",
			mutedStyle.Render(fmt.Sprintf("#%-5d", tx.ID)),
			titleStyle.Render(tx.Description),
			amountStyle(tx).Render(f.Signed(tx.Amount)),
			mutedStyle.Render(detail+" · "+date),
		)
	}
	return b.String()
}

const barWidth = 30

// renderBars draws the income and expense bars scaled to the larger one
func renderBars(f *money.Formatter, bars report.Bars) string {
	maxValue := bars.Income
	if bars.Expense.GreaterThan(maxValue) {
		maxValue = bars.Expense
	}

	bar := func(label string, style lipgloss.Style, v decimal.Decimal) string {
		width := 0
		if maxValue.IsPositive() {
			width = int(v.Div(maxValue).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		return fmt.Sprintf("%-8s %s %s\n", label, style.Render(strings.Repeat("█", width)), f.Chart(v))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Income vs Expense") + "\n")
	b.WriteString(bar("Income", incomeStyle, bars.Income))
	b.WriteString(bar("Expense", expenseStyle, bars.Expense))
	return b.String()
}

// renderBreakdown draws the expense legend by payment method
func renderBreakdown(f *money.Formatter, bd report.Breakdown) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Expenses by payment method") + "\n")
	if bd.IsEmpty() {
		b.WriteString(mutedStyle.Render("No expense data to display.") + "\n")
		return b.String()
	}
	for _, s := range bd.Slices {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		fmt.Fprintf(&b, "%s %-18s %12s  %6s\n", swatch, s.Method, f.Legend(s.Amount), f.Percent(s.Percent))
	}
	fmt.Fprintf(&b, "  %-18s %12s\n", "Total", f.Legend(bd.Total))
	return b.String()
}

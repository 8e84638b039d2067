package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fugevet/fintrack/internal/platform/transaction"
)

// OtherMethod collects expenses without a usable payment method
const OtherMethod = "Other"

// Palette is the fixed slice color order used by the expense chart
var Palette = []string{
	"#60A5FA",
	"#F87171",
	"#4ADE80",
	"#FACC15",
	"#FB923C",
	"#A78BFA",
	"#2DD4BF",
	"#F472B6",
}

// Slice is one payment method's share of total expense
type Slice struct {
	Method  string
	Amount  decimal.Decimal // magnitude
	Percent float64         // 0..100
	Color   string
}

// Breakdown is expense magnitude grouped by payment method
type Breakdown struct {
	Total  decimal.Decimal
	Slices []Slice
}

// IsEmpty reports whether there is nothing to chart
func (b Breakdown) IsEmpty() bool {
	return len(b.Slices) == 0
}

// ExpenseBreakdown groups expense magnitudes by payment method in order of
// first appearance. Zero groups are dropped.
func ExpenseBreakdown(txs []transaction.Transaction) Breakdown {
	sums := make(map[string]decimal.Decimal)
	var order []string
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}
		method := methodKey(tx.PaymentMethod)
		if _, seen := sums[method]; !seen {
			order = append(order, method)
			sums[method] = decimal.Zero
		}
		mag := tx.Magnitude()
		sums[method] = sums[method].Add(mag)
		total = total.Add(mag)
	}

	slices := make([]Slice, 0, len(order))
	for _, method := range order {
		amount := sums[method]
		if amount.IsZero() {
			continue
		}
		slices = append(slices, Slice{
			Method:  method,
			Amount:  amount,
			Percent: percentage(amount, total),
			Color:   Palette[len(slices)%len(Palette)],
		})
	}

	return Breakdown{Total: total, Slices: slices}
}

func methodKey(method string) string {
	m := strings.TrimSpace(method)
	if m == "" || m == transaction.UnknownPaymentMethod {
		return OtherMethod
	}
	return m
}

func percentage(value, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return value.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts with locale-aware digit grouping and a fixed
// currency symbol placed before the number.
type Formatter struct {
	printer *message.Printer
	symbol  string
	group   string
	point   string
}

// NewFormatter builds a formatter for a BCP-47 locale such as "tr-TR".
// Unknown locales fall back to the root locale.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	p := message.NewPrinter(tag)
	group, point := separators(p)
	return &Formatter{
		printer: p,
		symbol:  symbol,
		group:   group,
		point:   point,
	}
}

// Signed renders list and card amounts: two decimals, explicit +/- sign,
// no sign for zero. e.g. "+₺1.234,50", "-₺75,00", "₺0,00".
func (f *Formatter) Signed(d decimal.Decimal) string {
	body := f.symbol + f.number(d.Abs(), 2)
	switch d.Round(2).Sign() {
	case 1:
		return "+" + body
	case -1:
		return "-" + body
	default:
		return body
	}
}

// Chart renders chart labels without decimals, keeping the sign.
func (f *Formatter) Chart(d decimal.Decimal) string {
	rounded := d.Round(0)
	body := f.symbol + f.number(rounded.Abs(), 0)
	if rounded.Sign() < 0 {
		return "-" + body
	}
	return body
}

// Legend renders the magnitude with two decimals.
func (f *Formatter) Legend(d decimal.Decimal) string {
	return f.symbol + f.number(d.Abs(), 2)
}

// Percent renders a percentage with one decimal, e.g. "12,5%".
func (f *Formatter) Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return f.printer.Sprintf("%.1f", p) + "%"
}

// Placeholder is what non-numeric inputs render as.
func (f *Formatter) Placeholder() string {
	return f.Signed(decimal.Zero)
}

// SignedFloat is Signed for float input. NaN and infinities render as the
// placeholder.
func (f *Formatter) SignedFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.Placeholder()
	}
	return f.Signed(decimal.NewFromFloat(v))
}

// SignedAny formats loosely typed input without failing.
func (f *Formatter) SignedAny(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return f.Signed(x)
	case *decimal.Decimal:
		if x == nil {
			return f.Placeholder()
		}
		return f.Signed(*x)
	case float64:
		return f.SignedFloat(x)
	case float32:
		return f.SignedFloat(float64(x))
	case int:
		return f.Signed(decimal.NewFromInt(int64(x)))
	case int64:
		return f.Signed(decimal.NewFromInt(x))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return f.Placeholder()
		}
		return f.Signed(d)
	default:
		return f.Placeholder()
	}
}

// number renders a non-negative d with places decimals. Digits come from the
// decimal itself; only the separators are taken from the locale.
func (f *Formatter) number(d decimal.Decimal, places int32) string {
	whole, frac, _ := strings.Cut(d.StringFixed(places), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(f.point)
		b.WriteString(frac)
	}
	return b.String()
}

// separators reads the grouping and decimal marks the printer uses
func separators(p *message.Printer) (group, point string) {
	group = strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%d", 1000), "1"), "000")
	point = strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 0.5), "0"), "5")
	if point == "" {
		point = "."
	}
	return group, point
}

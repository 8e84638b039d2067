package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/pkg/money"
)

func tr() *money.Formatter {
	return money.NewFormatter("tr-TR", "₺")
}

func TestFormatter_Signed(t *testing.T) {
	f := tr()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"positive with grouping", "1234.5", "+₺1.234,50"},
		{"negative", "-75", "-₺75,00"},
		{"zero has no sign", "0", "₺0,00"},
		{"tiny rounds to zero", "-0.001", "₺0,00"},
		{"millions", "5000000", "+₺5.000.000,00"},
		{"beyond float precision", "90071992547409.93", "+₺90.071.992.547.409,93"},
		{"half rounds away from zero", "-0.005", "-₺0,01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Signed(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_ChartAndLegend(t *testing.T) {
	f := tr()

	assert.Equal(t, "₺1.235", f.Chart(decimal.RequireFromString("1234.6")))
	assert.Equal(t, "₺0", f.Chart(decimal.Zero))
	assert.Equal(t, "₺250,00", f.Legend(decimal.RequireFromString("-250")))
}

func TestFormatter_Percent(t *testing.T) {
	f := tr()

	assert.Equal(t, "12,5%", f.Percent(12.5))
	assert.Equal(t, "0,0%", f.Percent(math.NaN()))
	assert.Equal(t, "100,0%", f.Percent(100))
}

func TestFormatter_NonNumericRendersPlaceholder(t *testing.T) {
	f := tr()
	placeholder := f.Placeholder()
	assert.Equal(t, "₺0,00", placeholder)

	assert.Equal(t, placeholder, f.SignedFloat(math.NaN()))
	assert.Equal(t, placeholder, f.SignedFloat(math.Inf(1)))
	assert.Equal(t, placeholder, f.SignedAny(nil))
	assert.Equal(t, placeholder, f.SignedAny("abc"))
	assert.Equal(t, placeholder, f.SignedAny((*decimal.Decimal)(nil)))
	assert.Equal(t, placeholder, f.SignedAny(struct{}{}))

	assert.Equal(t, "-₺40,00", f.SignedAny(-40))
	assert.Equal(t, "+₺12,30", f.SignedAny("12.3"))
}

func TestFormatter_EnglishLocale(t *testing.T) {
	f := money.NewFormatter("en-US", "$")
	assert.Equal(t, "+$1,234.50", f.Signed(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$999", f.Chart(decimal.RequireFromString("999.4")))
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"150,75", "150.75", false},
		{"150.75", "150.75", false},
		{"  42 ", "42", false},
		{"", "", true},
		{"abc", "", true},
		{"1,2,3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseInput(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got))
		})
	}
}

func TestParsePositiveInput(t *testing.T) {
	_, err := money.ParsePositiveInput("0")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = money.ParsePositiveInput("-5")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	d, err := money.ParsePositiveInput("5,5")
	require.NoError(t, err)
	assert.Equal(t, "5.5", d.String())
}

func TestWireAmount_Unmarshal(t *testing.T) {
	type rec struct {
		Amount money.WireAmount `json:"amount"`
	}

	tests := []struct {
		name    string
		body    string
		present bool
		valid   bool
		value   string
	}{
		{"number", `{"amount": 250.5}`, true, true, "250.5"},
		{"numeric string", `{"amount": "-75"}`, true, true, "-75"},
		{"null", `{"amount": null}`, false, false, "0"},
		{"missing", `{}`, false, false, "0"},
		{"garbage string", `{"amount": "abc"}`, true, false, "0"},
		{"bool", `{"amount": true}`, true, false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r rec
			require.NoError(t, json.Unmarshal([]byte(tt.body), &r))
			assert.Equal(t, tt.present, r.Amount.Present)
			assert.Equal(t, tt.valid, r.Amount.Valid)
			assert.True(t, decimal.RequireFromString(tt.value).Equal(r.Amount.Value))
		})
	}
}

func TestWireAmount_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount money.WireAmount `json:"amount"`
	}{money.NewWireAmount(decimal.RequireFromString("-40.25"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": -40.25}`, string(b))
}

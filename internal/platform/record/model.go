package record

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/internal/platform/validation"
)

// Record is a transaction as the backend stores it. Amount is signed by
// Type: income >= 0, expense <= 0.
type Record struct {
	ID                     int64
	UserID                 int64
	Type                   transaction.Type
	PaymentType            string
	Amount                 decimal.Decimal
	ProductName            string
	TransactionDescription string
	CompanyPerson          string
	Description            string
	Date                   time.Time
	CreatedAt              time.Time
}

// CreateInput is a POST /transactions/ body after decoding
type CreateInput struct {
	UserID                 int64
	Type                   string
	PaymentType            string
	Amount                 *decimal.Decimal
	ProductName            string
	TransactionDescription string
	CompanyPerson          string
	Description            string
	Date                   string
}

// dateLayouts accepted for Date. Zone-less values are taken as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Build validates in and produces a record ready to store
func (in CreateInput) Build(now time.Time) (*Record, error) {
	var verr validation.Error

	typ, ok := transaction.NormalizeType(in.Type)
	if strings.TrimSpace(in.Type) == "" {
		verr.Add("type", "missing", "Field required")
	} else if !ok {
		verr.Add("type", "enum", "Input should be 'income' or 'expense'")
	}

	if in.Amount == nil {
		verr.Add("amount", "missing", "Field required")
	}

	if in.UserID < 0 {
		verr.Add("user_id", "greater_than_equal", "Input should be greater than or equal to 0")
	}

	date := now
	if s := strings.TrimSpace(in.Date); s != "" {
		parsed, ok := parseDate(s)
		if !ok {
			verr.Add("date", "datetime_parsing", "Input should be a valid datetime")
		}
		date = parsed
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	return &Record{
		UserID:                 in.UserID,
		Type:                   typ,
		PaymentType:            strings.TrimSpace(in.PaymentType),
		Amount:                 transaction.SignedAmount(typ, *in.Amount),
		ProductName:            strings.TrimSpace(in.ProductName),
		TransactionDescription: strings.TrimSpace(in.TransactionDescription),
		CompanyPerson:          strings.TrimSpace(in.CompanyPerson),
		Description:            strings.TrimSpace(in.Description),
		Date:                   date.UTC(),
		CreatedAt:              now.UTC(),
	}, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package transactions

import (
	"fmt"
	"strings"
	"time"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/pkg/logger"
	"github.com/fugevet/fintrack/pkg/money"
)

// dateLayouts are tried in order. Layouts without a zone are read as local
// time.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// toTransaction maps a backend record to the app model
func toTransaction(rec finapi.TransactionRecord, log *logger.Logger) (transaction.Transaction, error) {
	if rec.ID == nil {
		return transaction.Transaction{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if !rec.Amount.Present {
		return transaction.Transaction{}, fmt.Errorf("%w: missing amount (id %d)", ErrMalformedRecord, *rec.ID)
	}

	typ, ok := transaction.NormalizeType(rec.Type)
	if !ok {
		log.Warn("unrecognized transaction type, treating as expense", "id", *rec.ID, "type", rec.Type)
	}

	amount := rec.Amount.Value
	if !rec.Amount.Valid {
		log.Warn("non-numeric amount, using zero", "id", *rec.ID)
	}

	date, ok := parseDate(rec.Date)
	if !ok {
		log.Warn("unparseable transaction date", "id", *rec.ID, "date", rec.Date)
	}

	description := firstNonBlank(rec.ProductName, rec.TransactionDescription, rec.Description)
	if description == "" {
		description = transaction.NoDescription
	}

	method := firstNonBlank(rec.PaymentType)
	if method == "" {
		method = transaction.UnknownPaymentMethod
	}

	return transaction.Transaction{
		ID:            *rec.ID,
		OwnerID:       rec.UserID,
		Description:   description,
		Amount:        transaction.SignedAmount(typ, amount),
		Date:          date,
		Type:          typ,
		PaymentMethod: method,
		Payee:         strings.TrimSpace(rec.CompanyPerson),
	}, nil
}

// toCreatePayload is the inverse mapping used for POST /transactions/
func toCreatePayload(req transaction.CreateRequest, ownerID int64) finapi.TransactionCreate {
	return finapi.TransactionCreate{
		UserID:        ownerID,
		Type:          req.Type.String(),
		PaymentType:   strings.TrimSpace(req.PaymentMethod),
		Amount:        money.NewWireAmount(req.Amount),
		ProductName:   strings.TrimSpace(req.Description),
		CompanyPerson: strings.TrimSpace(req.Payee),
		Date:          req.Date.Format(time.RFC3339),
	}
}

package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Display fallbacks for optional backend fields
const (
	NoDescription        = "No description"
	UnknownPaymentMethod = "Unknown"
)

// Common payment methods offered when adding a transaction
const (
	MethodCash     = "Nakit"
	MethodCard     = "Kredi Kartı"
	MethodTransfer = "Banka Transferi"
)

// Transaction is the normalized, client-side transaction record.
// Amount is signed: income is >= 0, expense is <= 0.
type Transaction struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Type          Type            `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Payee         string          `json:"payee,omitempty"`
}

// IsIncome reports whether t is an income record
func (t *Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// Magnitude returns |Amount|
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// SignedAmount applies the sign convention for typ to any amount
func SignedAmount(typ Type, amount decimal.Decimal) decimal.Decimal {
	if typ == TypeIncome {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}

// CreateRequest is what a caller supplies to record a new transaction
type CreateRequest struct {
	Description   string
	Amount        decimal.Decimal
	Date          time.Time
	Type          Type
	PaymentMethod string
	Payee         string
}

// NewCreateRequest builds a request from an unsigned magnitude, signing the
// amount by type the way the add form does.
func NewCreateRequest(description string, magnitude decimal.Decimal, isIncome bool, method, payee string, date time.Time) CreateRequest {
	typ := TypeExpense
	if isIncome {
		typ = TypeIncome
	}
	return CreateRequest{
		Description:   strings.TrimSpace(description),
		Amount:        SignedAmount(typ, magnitude),
		Date:          date,
		Type:          typ,
		PaymentMethod: strings.TrimSpace(method),
		Payee:         strings.TrimSpace(payee),
	}
}

// Validate checks the request before it is sent
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrDescriptionRequired
	}
	if !r.Type.IsValid() {
		return ErrInvalidType
	}
	if r.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if (r.Type == TypeIncome && r.Amount.IsNegative()) || (r.Type == TypeExpense && r.Amount.IsPositive()) {
		return ErrAmountSignMismatch
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return ErrPaymentMethodRequired
	}
	if r.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

package finapi

import (
	"encoding/json"
	"fmt"

	"github.com/fugevet/fintrack/pkg/money"
)

// TransactionRecord is a transaction as the backend stores and returns it.
// Most fields are optional; older backend iterations omit several of them.
type TransactionRecord struct {
	ID                     *int64           `json:"id"`
	UserID                 int64            `json:"user_id,omitempty"`
	Type                   string           `json:"type"`
	PaymentType            string           `json:"payment_type,omitempty"`
	Amount                 money.WireAmount `json:"amount"`
	ProductName            string           `json:"product_name,omitempty"`
	TransactionDescription string           `json:"transaction_description,omitempty"`
	CompanyPerson          string           `json:"company_person,omitempty"`
	Description            string           `json:"description,omitempty"`
	Date                   string           `json:"date,omitempty"`
}

// TransactionCreate is the body of POST /transactions/
type TransactionCreate struct {
	UserID        int64            `json:"user_id"`
	Type          string           `json:"type"`
	PaymentType   string           `json:"payment_type"`
	Amount        money.WireAmount `json:"amount"`
	ProductName   string           `json:"product_name"`
	CompanyPerson string           `json:"company_person,omitempty"`
	Date          string           `json:"date"`
}

// UserCreate is the body of POST /users/
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for subsequent requests
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// ValidationDetail is one entry of a FastAPI-style 422 detail list.
// Loc elements are strings or integers, e.g. ["body", "email"].
type ValidationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field returns the last element of Loc, which names the offending field
func (d ValidationDetail) Field() string {
	if len(d.Loc) == 0 {
		return ""
	}
	switch v := d.Loc[len(d.Loc)-1].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprint(v)
	}
}

// errorBody is the envelope for every non-2xx response. Detail is either a
// plain string or a list of ValidationDetail.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

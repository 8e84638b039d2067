package transaction

import "errors"

// Create request validation errors
var (
	ErrDescriptionRequired   = errors.New("description is required")
	ErrInvalidAmount         = errors.New("amount must be a non-zero number")
	ErrAmountSignMismatch    = errors.New("amount sign does not match transaction type")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrInvalidType           = errors.New("type must be income or expense")
	ErrDateRequired          = errors.New("date is required")
)

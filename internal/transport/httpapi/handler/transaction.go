package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/record"
	"github.com/fugevet/fintrack/internal/platform/validation"
	"github.com/fugevet/fintrack/internal/transport/httpapi/middleware"
	"github.com/fugevet/fintrack/pkg/logger"
	"github.com/fugevet/fintrack/pkg/money"
)

// RecordServiceInterface defines the record operations needed by TransactionHandler
type RecordServiceInterface interface {
	Create(ctx context.Context, in record.CreateInput, ownerID int64) (*record.Record, error)
	List(ctx context.Context, ownerID int64) ([]*record.Record, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	records RecordServiceInterface
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(records RecordServiceInterface, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		records: records,
		logger:  log.WithComponent("transaction_handler"),
	}
}

// CreateTransactionRequest is the POST /transactions/ body. It accepts the
// descriptive fields older clients send alongside product_name.
type CreateTransactionRequest struct {
	UserID                 int64            `json:"user_id"`
	Type                   string           `json:"type"`
	PaymentType            string           `json:"payment_type"`
	Amount                 money.WireAmount `json:"amount"`
	ProductName            string           `json:"product_name"`
	TransactionDescription string           `json:"transaction_description"`
	CompanyPerson          string           `json:"company_person"`
	Description            string           `json:"description"`
	Date                   string           `json:"date"`
}

// GetTransactions handles GET /transactions/
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())

	records, err := h.records.List(r.Context(), ownerID)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("list transactions failed")
		respondDetail(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	out := make([]finapi.TransactionRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toWire(rec))
	}
	respondJSON(w, out, http.StatusOK)
}

// CreateTransaction handles POST /transactions/
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if verr := decodeJSON(w, r, &req); verr != nil {
		respondValidation(w, verr)
		return
	}

	if req.Amount.Present && !req.Amount.Valid {
		var verr validation.Error
		verr.Add("amount", "decimal_parsing", "Input should be a valid decimal")
		respondValidation(w, &verr)
		return
	}

	in := record.CreateInput{
		UserID:                 req.UserID,
		Type:                   req.Type,
		PaymentType:            req.PaymentType,
		ProductName:            req.ProductName,
		TransactionDescription: req.TransactionDescription,
		CompanyPerson:          req.CompanyPerson,
		Description:            req.Description,
		Date:                   req.Date,
	}
	if req.Amount.Present {
		amount := req.Amount.Value
		in.Amount = &amount
	}

	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	rec, err := h.records.Create(r.Context(), in, ownerID)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondValidation(w, verr)
			return
		}
		h.logger.WithContext(r.Context()).WithError(err).Error("create transaction failed")
		respondDetail(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	respondJSON(w, toWire(rec), http.StatusCreated)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, ValidationResponse{Detail: []finapi.ValidationDetail{{
			Loc:  []any{"path", "id"},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}}}, http.StatusUnprocessableEntity)
		return
	}

	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.records.Delete(r.Context(), id, ownerID); err != nil {
		if errors.Is(err, record.ErrRecordNotFound) || errors.Is(err, record.ErrInvalidID) {
			respondDetail(w, "Transaction not found", http.StatusNotFound)
			return
		}
		h.logger.WithContext(r.Context()).WithError(err).Error("delete transaction failed")
		respondDetail(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toWire(rec *record.Record) finapi.TransactionRecord {
	id := rec.ID
	return finapi.TransactionRecord{
		ID:                     &id,
		UserID:                 rec.UserID,
		Type:                   string(rec.Type),
		PaymentType:            rec.PaymentType,
		Amount:                 money.NewWireAmount(rec.Amount),
		ProductName:            rec.ProductName,
		TransactionDescription: rec.TransactionDescription,
		CompanyPerson:          rec.CompanyPerson,
		Description:            rec.Description,
		Date:                   rec.Date.UTC().Format(time.RFC3339),
	}
}

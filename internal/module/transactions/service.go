package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/pkg/logger"
)

// Gateway is the subset of the backend client the service needs
type Gateway interface {
	ListTransactions(ctx context.Context) (json.RawMessage, error)
	CreateTransaction(ctx context.Context, in finapi.TransactionCreate) (*finapi.TransactionRecord, error)
	DeleteTransaction(ctx context.Context, id int64) (int, error)
}

// Cache stores the last fetched list per user
type Cache interface {
	Get(ctx context.Context, userID int64) ([]transaction.Transaction, bool, error)
	Set(ctx context.Context, userID int64, txs []transaction.Transaction) error
	Invalidate(ctx context.Context, userID int64) error
}

// Service fetches, creates and deletes transactions against the backend,
// converting between its record schema and transaction.Transaction.
type Service struct {
	api    Gateway
	cache  Cache
	logger *logger.Logger
}

// NewService creates a new transaction service without a cache
func NewService(api Gateway, log *logger.Logger) *Service {
	return &Service{
		api:    api,
		logger: log.WithField("component", "transactions"),
	}
}

// WithCache enables write-through caching of fetched lists
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// FetchAll fetches every transaction, newest first. The result is never nil:
// on failure it is empty and err says why.
func (s *Service) FetchAll(ctx context.Context) ([]transaction.Transaction, error) {
	log := s.logger.WithContext(ctx)

	raw, err := s.api.ListTransactions(ctx)
	if err != nil {
		log.Error("failed to fetch transactions", "error", err)
		return []transaction.Transaction{}, fmt.Errorf("fetch transactions: %w", err)
	}

	records, err := readRecords(raw, log)
	if err != nil {
		log.Error("failed to read transactions", "error", err)
		return []transaction.Transaction{}, err
	}

	result := make([]transaction.Transaction, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for i, rec := range records {
		tx, err := toTransaction(rec, log)
		if err != nil {
			log.Warn("skipping transaction record", "index", i, "error", err)
			continue
		}
		if seen[tx.ID] {
			log.Warn("skipping duplicate transaction id", "id", tx.ID)
			continue
		}
		seen[tx.ID] = true
		result = append(result, tx)
	}

	slices.SortStableFunc(result, func(a, b transaction.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	if s.cache != nil {
		if sess, ok := session.FromContext(ctx); ok {
			if err := s.cache.Set(ctx, sess.UserID, result); err != nil {
				log.Warn("failed to cache transactions", "error", err)
			}
		}
	}

	log.Debug("transactions fetched", "received", len(records), "kept", len(result))
	return result, nil
}

// Create records a new transaction for the session user and returns the
// record as stored by the backend.
func (s *Service) Create(ctx context.Context, req transaction.CreateRequest) (*transaction.Transaction, error) {
	log := s.logger.WithContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.api.CreateTransaction(ctx, toCreatePayload(req, sess.UserID))
	if err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}

	tx, err := toTransaction(*rec, log)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.invalidate(ctx, sess.UserID)
	log.Info("transaction created", "id", tx.ID, "type", tx.Type)
	return &tx, nil
}

// DeleteByID deletes a transaction. It reports true only when the backend
// answers 200 or 204.
func (s *Service) DeleteByID(ctx context.Context, id int64) (bool, error) {
	log := s.logger.WithContext(ctx)

	if id <= 0 {
		return false, ErrInvalidID
	}

	status, err := s.api.DeleteTransaction(ctx, id)
	if err != nil {
		if finapi.IsNotFound(err) {
			log.Warn("transaction to delete not found", "id", id)
		} else {
			log.Error("failed to delete transaction", "id", id, "error", err)
		}
		return false, err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		log.Warn("unexpected delete status", "id", id, "status_code", status)
		return false, fmt.Errorf("%w: status %d", ErrDeleteNotConfirmed, status)
	}

	if sess, ok := session.FromContext(ctx); ok {
		s.invalidate(ctx, sess.UserID)
	}
	log.Info("transaction deleted", "id", id)
	return true, nil
}

// Cached returns the list FetchAll last stored for the session user
func (s *Service) Cached(ctx context.Context) ([]transaction.Transaction, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, false, err
	}
	return s.cache.Get(ctx, sess.UserID)
}

// Forget drops the cached list of the session user, if any
func (s *Service) Forget(ctx context.Context) {
	if sess, ok := session.FromContext(ctx); ok {
		s.invalidate(ctx, sess.UserID)
	}
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("failed to invalidate cache", "user_id", userID, "error", err)
	}
}

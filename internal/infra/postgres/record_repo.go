package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fugevet/fintrack/internal/platform/record"
	"github.com/fugevet/fintrack/internal/platform/transaction"
)

// RecordRepository implements record.Repository using PostgreSQL.
// Amounts travel as text so NUMERIC values keep their exact digits.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new PostgreSQL record repository
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

const recordColumns = `id, user_id, type, payment_type, amount::text, product_name,
	transaction_description, company_person, description, date, created_at`

// Create inserts a record and sets its generated ID
func (r *RecordRepository) Create(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO transactions (user_id, type, payment_type, amount, product_name,
			transaction_description, company_person, description, date, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		rec.UserID,
		string(rec.Type),
		rec.PaymentType,
		rec.Amount.String(),
		rec.ProductName,
		rec.TransactionDescription,
		rec.CompanyPerson,
		rec.Description,
		rec.Date,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// List returns records newest first
func (r *RecordRepository) List(ctx context.Context, filter record.ListFilter) ([]*record.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM transactions`
	args := []any{}
	if filter.UserID != 0 {
		query += ` WHERE user_id = $1`
		args = append(args, filter.UserID)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]*record.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

// GetByID retrieves a record by ID
func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*record.Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM transactions WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes a record
func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*record.Record, error) {
	var (
		rec    record.Record
		typ    string
		amount string
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&typ,
		&rec.PaymentType,
		&amount,
		&rec.ProductName,
		&rec.TransactionDescription,
		&rec.CompanyPerson,
		&rec.Description,
		&rec.Date,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	rec.Type = transaction.Type(typ)
	rec.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	return &rec, nil
}

package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/fugevet/fintrack/internal/platform/record"
)

// RecordRepository is an in-memory record.Repository
type RecordRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*record.Record
}

// NewRecordRepository creates an empty repository
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{records: make(map[int64]*record.Record)}
}

// Create stores rec and assigns its ID
func (r *RecordRepository) Create(_ context.Context, rec *record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

// List returns copies of the matching records, newest first, ties by
// descending id
func (r *RecordRepository) List(_ context.Context, filter record.ListFilter) ([]*record.Record, error) {
	r.mu.RLock()
	out := make([]*record.Record, 0, len(r.records))
	for _, rec := range r.records {
		if filter.UserID != 0 && rec.UserID != filter.UserID {
			continue
		}
		c := *rec
		out = append(out, &c)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *record.Record) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

// GetByID returns a copy of the record
func (r *RecordRepository) GetByID(_ context.Context, id int64) (*record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, record.ErrRecordNotFound
	}
	c := *rec
	return &c, nil
}

// Delete removes the record
func (r *RecordRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return record.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

// Ping always succeeds; it lets the repository back readiness checks
func (r *RecordRepository) Ping(context.Context) error {
	return nil
}

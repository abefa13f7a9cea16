// Package storage holds assembled records awaiting human review. In-memory
// only; the export layer is the durable output.
package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stylefacet/tagger/internal/metadata"
)

var ErrNotFound = errors.New("record not found")

// Batch groups records that arrived in one bulk run or upload.
type Batch struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Products  []string  `json:"products"`
}

type RecordStore struct {
	records map[string]*metadata.Record
	batches map[string]*Batch
	mu      sync.RWMutex
}

func New() *RecordStore {
	return &RecordStore{
		records: make(map[string]*metadata.Record),
		batches: make(map[string]*Batch),
	}
}

func (s *RecordStore) Get(productID string) (*metadata.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[productID]
	return record, exists
}

func (s *RecordStore) Set(record *metadata.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ProductID] = record
}

// SetBatch stores records together under a new batch ID and returns it.
func (s *RecordStore) SetBatch(source string, records []*metadata.Record) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := &Batch{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now(),
		Products:  make([]string, 0, len(records)),
	}
	for _, record := range records {
		s.records[record.ProductID] = record
		batch.Products = append(batch.Products, record.ProductID)
	}
	sort.Strings(batch.Products)
	s.batches[batch.ID] = batch
	return batch.ID
}

// GetAll returns every record sorted by product ID.
func (s *RecordStore) GetAll() []*metadata.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*metadata.Record, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductID < result[j].ProductID
	})
	return result
}

// GetPending returns records still flagged for review, sorted so the lowest
// aggregate scores come first.
func (s *RecordStore) GetPending() []*metadata.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*metadata.Record, 0, len(s.records))
	for _, record := range s.records {
		if record.NeedsReview && !record.Approved {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Aggregate != result[j].Aggregate {
			return result[i].Aggregate < result[j].Aggregate
		}
		return result[i].ProductID < result[j].ProductID
	})
	return result
}

func (s *RecordStore) GetBatch(batchID string) (*Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch, exists := s.batches[batchID]
	return batch, exists
}

// Update runs fn against a stored record under the write lock, so reviewer
// corrections never race with each other or with readers.
func (s *RecordStore) Update(productID string, fn func(*metadata.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, exists := s.records[productID]
	if !exists {
		return ErrNotFound
	}
	return fn(record)
}

func (s *RecordStore) Delete(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, productID)
}

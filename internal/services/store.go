package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "soacli/internal/errors"
	"soacli/pkg/contracts/domain"
)

// StoredStatement is a parsed document held in memory together with its
// upload bookkeeping.
type StoredStatement struct {
	ID         string           `json:"id"`
	FileName   string           `json:"file_name"`
	UploadedAt time.Time        `json:"uploaded_at"`
	Document   *domain.Document `json:"document"`
	// Warning carries a non-fatal parse condition, e.g. a workbook with no
	// recognizable line items.
	Warning string `json:"warning,omitempty"`

	seq uint64
}

// Store is an in-memory collection of parsed statements keyed by ID.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*StoredStatement
	nextSeq uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]*StoredStatement)}
}

// Put stores the document under a fresh ID and returns the stored entry.
func (s *Store) Put(fileName string, doc *domain.Document, warning string) *StoredStatement {
	entry := &StoredStatement{
		ID:         uuid.New().String(),
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
		Document:   doc,
		Warning:    warning,
	}

	s.mu.Lock()
	s.nextSeq++
	entry.seq = s.nextSeq
	s.items[entry.ID] = entry
	s.mu.Unlock()
	return entry
}

// Get returns the statement with the given ID.
func (s *Store) Get(id string) (*StoredStatement, error) {
	s.mu.RLock()
	entry, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("statement " + id + " not found")
	}
	return entry, nil
}

// List returns all stored statements in insertion order, oldest first.
func (s *Store) List() []*StoredStatement {
	s.mu.RLock()
	out := make([]*StoredStatement, 0, len(s.items))
	for _, entry := range s.items {
		out = append(out, entry)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Delete removes the statement with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperrors.NewNotFoundError("statement " + id + " not found")
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of stored statements.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

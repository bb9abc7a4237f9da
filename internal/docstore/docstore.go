// Package docstore is the document side of the persistence gateway: three
// whole-document records keyed by data domain, read and replaced as units.
// Writes are last-write-wins at the document level; there is no field-level
// transaction or versioning scheme.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mdulin/tandem/internal/models"
	"gorm.io/gorm"
)

// Well-known document keys, one per data domain.
const (
	KeyTrips   = "trips"
	KeyFitness = "fitness"
	KeyParty   = "party"
)

type Store struct {
	db *gorm.DB

	mu   sync.Mutex
	subs map[string][]chan []byte
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, subs: make(map[string][]chan []byte)}
}

// Decode unmarshals a raw snapshot into a document shape. A missing or
// never-written document decodes to the zero value.
func Decode(raw []byte, into any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}

// Get reads the document under key into the given shape. A key that has
// never been written leaves the shape at its zero value; that is not an
// error.
func (s *Store) Get(ctx context.Context, key string, into any) error {
	var doc models.Document
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return Decode(doc.Data, into)
}

// Replace writes the document whole, overwriting whatever is stored.
// Concurrent writers race at document granularity; the last commit wins.
func (s *Store) Replace(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Where("key = ?", key).First(&doc).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		doc.Key = key
		doc.Data = data
		return tx.Save(&doc).Error
	})
	if err != nil {
		return err
	}
	s.notify(key, data)
	return nil
}

// Update is a read-modify-write: apply receives the current raw snapshot
// (nil if the key was never written) and returns the document to persist.
// The read and write share one transaction against the local store, but
// the operation is still last-write-wins relative to other processes.
func (s *Store) Update(ctx context.Context, key string, apply func(raw []byte) (any, error)) error {
	var written []byte
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Where("key = ?", key).First(&doc).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		value, err := apply(doc.Data)
		if err != nil {
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		doc.Key = key
		doc.Data = data
		if err := tx.Save(&doc).Error; err != nil {
			return err
		}
		written = data
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(key, written)
	return nil
}

// Subscribe delivers full-document snapshots for key: the current one
// immediately (if any), then one per successful write. The channel is
// buffered; a subscriber that falls behind drops intermediate snapshots
// rather than blocking writers. The returned func cancels the
// subscription.
func (s *Store) Subscribe(key string) (<-chan []byte, func()) {
	ch := make(chan []byte, 8)

	// Snapshot read and registration happen under the notify lock, so a
	// write committing concurrently cannot queue its snapshot ahead of
	// the initial one.
	s.mu.Lock()
	var doc models.Document
	if err := s.db.Where("key = ?", key).First(&doc).Error; err == nil {
		ch <- doc.Data
	}
	s.subs[key] = append(s.subs[key], ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[key]
		for i, c := range subs {
			if c == ch {
				s.subs[key] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (s *Store) notify(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[key] {
		select {
		case ch <- data:
		default:
		}
	}
}
